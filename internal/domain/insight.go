package domain

import (
	"strings"
	"time"
)

// Language is a response language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// ParseLanguage normalises a language code. It does not check support.
func ParseLanguage(s string) Language {
	return Language(strings.ToLower(strings.TrimSpace(s)))
}

// Name returns the plain English name of l.
func (l Language) Name() string {
	switch l {
	case LanguageHindi:
		return "Hindi"
	default:
		return "English"
	}
}

// DisplayName returns the name used when prompting a language model.
func (l Language) DisplayName() string {
	switch l {
	case LanguageHindi:
		return "Hindi (Devanagari script)"
	default:
		return "English"
	}
}

// InsightResponse is returned by POST /api/insight.
type InsightResponse struct {
	Zodiac       string   `json:"zodiac"`
	Insight      string   `json:"insight"`
	Language     Language `json:"language"`
	Element      Element  `json:"element,omitempty"`
	RulingPlanet string   `json:"ruling_planet,omitempty"`
	Traits       []string `json:"traits,omitempty"`
}

// ZodiacResponse is returned by GET /api/zodiac.
type ZodiacResponse struct {
	Sign         string   `json:"sign"`
	Element      Element  `json:"element"`
	RulingPlanet string   `json:"ruling_planet"`
	Traits       []string `json:"traits"`
	DateRange    string   `json:"date_range"`
	Language     Language `json:"language"`
}

// InsightRecord is a persisted cache entry, unique per (sign, language, day).
type InsightRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Sign      Sign      `gorm:"type:text;not null;uniqueIndex:idx_insight_key" json:"sign"`
	Language  Language  `gorm:"type:text;not null;uniqueIndex:idx_insight_key" json:"language"`
	Day       string    `gorm:"type:text;not null;uniqueIndex:idx_insight_key;index:idx_insight_day" json:"day"`
	Insight   string    `gorm:"type:text;not null" json:"insight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for InsightRecord.
func (InsightRecord) TableName() string {
	return "insight_cache"
}

// Almanac is the published set of one day's insights for every sign.
type Almanac struct {
	Day         string            `json:"day"`
	Language    Language          `json:"language"`
	GeneratedAt time.Time         `json:"generated_at"`
	Entries     []InsightResponse `json:"entries"`
}
