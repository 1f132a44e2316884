package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/repository"
	"github.com/timmy/astroinsight/internal/service"
)

const cardWidth = 60

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorText    = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#FFC107"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E53935"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	signStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	insightStyle = lipgloss.NewStyle().
			Italic(true).
			Width(cardWidth - 4)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	noteStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)
)

func renderBanner() string {
	return titleStyle.Render("Astrological Insight Generator")
}

func renderNote(msg string) string {
	return noteStyle.Render("Note: " + msg)
}

func renderError(err error) string {
	return errorStyle.Render("Error: ") + err.Error()
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func firstTraits(traits []string, n int) []string {
	if len(traits) > n {
		return traits[:n]
	}
	return traits
}

func renderInsight(name string, resp *domain.InsightResponse) string {
	rows := []string{
		titleStyle.Render("Your insight for today"),
		"",
		field("Name", name),
		field("Zodiac Sign", signStyle.Render(resp.Zodiac)+valueStyle.Render(fmt.Sprintf(" (%s)", resp.Element))),
		field("Ruling Planet", resp.RulingPlanet),
		field("Key Traits", strings.Join(firstTraits(resp.Traits, 3), ", ")),
		"",
		insightStyle.Render(resp.Insight),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderZodiac(z *domain.ZodiacResponse) string {
	rows := []string{
		signStyle.Render(z.Sign),
		field("Dates", z.DateRange),
		field("Element", string(z.Element)),
		field("Ruling Planet", z.RulingPlanet),
		field("Traits", strings.Join(z.Traits, ", ")),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderSigns(signs []domain.ZodiacResponse) string {
	nameCol := lipgloss.NewStyle().Width(14)
	elemCol := lipgloss.NewStyle().Width(8).Foreground(colorDim)
	rangeCol := lipgloss.NewStyle().Width(26)

	var b strings.Builder
	for i, z := range signs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			signStyle.Inherit(nameCol).Render(z.Sign),
			elemCol.Render(string(z.Element)),
			rangeCol.Render(z.DateRange),
			valueStyle.Render(z.RulingPlanet),
		))
	}
	return b.String()
}

func renderCacheStats(s repository.CacheStats) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		field("Backend", s.Backend),
		field("Day", s.Day),
		field("Entries", fmt.Sprintf("%d", s.Entries)),
		field("Today", fmt.Sprintf("%d", s.TodayEntries)),
	)
}

func renderPublishStats(s *service.PublishStats) string {
	rows := []string{
		titleStyle.Render("Almanac " + s.Day),
		field("Published", fmt.Sprintf("%d", len(s.Published))),
		field("Skipped", fmt.Sprintf("%d", s.Skipped)),
		field("Failed", fmt.Sprintf("%d", s.Failed)),
		field("Duration", s.EndTime.Sub(s.StartTime).Round(time.Millisecond).String()),
	}
	for _, url := range s.Published {
		rows = append(rows, valueStyle.Render("  "+url))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderAlmanac(a *domain.Almanac) string {
	rows := []string{titleStyle.Render(fmt.Sprintf("Almanac %s (%s)", a.Day, a.Language)), ""}
	for _, e := range a.Entries {
		rows = append(rows, signStyle.Render(e.Zodiac), insightStyle.Render(e.Insight), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderArchiveHits(hits []service.ArchiveHit) string {
	if len(hits) == 0 {
		return noteStyle.Render("No archived insights matched.")
	}
	rows := make([]string, 0, len(hits)*2)
	for _, h := range hits {
		header := fmt.Sprintf("%.3f  %s  %s  %s", h.Score, h.Day, h.Sign, h.Language)
		rows = append(rows, signStyle.Render(header), insightStyle.Render(h.Insight), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
