package prompts

import (
	"fmt"
	"strings"
)

// ============================================================================
// Insight Generation
// ============================================================================

// DailyThemes rotates the focus area of generated insights by day of year.
var DailyThemes = []string{
	"relationships",
	"career",
	"personal growth",
	"creativity",
	"challenges",
	"opportunities",
	"communication",
	"emotions",
}

// ThemeFor picks the daily theme for a day of year (1-366).
func ThemeFor(yearDay int) string {
	return DailyThemes[yearDay%len(DailyThemes)]
}

// InsightSystemPrompt defines the role for insight generation.
const InsightSystemPrompt = `You are an expert astrologer providing personalized daily insights.`

// InsightPromptData is the input of InsightUserPrompt.
type InsightPromptData struct {
	Name     string
	Sign     string
	Element  string
	Traits   []string
	Weekday  string
	Theme    string
	Language string
}

// InsightUserPrompt builds the per-request prompt. Only the first three traits are used.
func InsightUserPrompt(d InsightPromptData) string {
	traits := d.Traits
	if len(traits) > 3 {
		traits = traits[:3]
	}

	return fmt.Sprintf(`Generate a personalized daily astrological insight for %s.

Zodiac Sign: %s
Element: %s
Key Traits: %s
Day: %s
Focus Area: %s

Create a warm, encouraging insight (2-3 sentences) that:
1. Acknowledges their zodiac traits
2. Provides guidance related to %s
3. Is positive and actionable

Language: %s
Tone: Friendly, mystical, encouraging`,
		d.Name, d.Sign, d.Element, strings.Join(traits, ", "), d.Weekday, d.Theme, d.Theme, d.Language)
}

// ============================================================================
// Translation
// ============================================================================

// TranslationSystemPrompt defines the role for free-text translation.
func TranslationSystemPrompt(language string) string {
	return fmt.Sprintf("You are a professional translator. Translate English to %s. Maintain the tone and meaning.", language)
}

// TranslationUserPrompt wraps the text to translate.
func TranslationUserPrompt(language, text string) string {
	return fmt.Sprintf("Translate to %s: %s", language, text)
}
