package domain

import (
	"strings"
	"time"
)

const (
	// DateLayout is the accepted birth date format.
	DateLayout = "2006-01-02"
	// TimeLayout is the accepted birth time format.
	TimeLayout = "15:04"
	// DayLayout formats the calendar day used in cache keys.
	DayLayout = "2006-01-02"
)

// BirthDetails is the validated input of one insight request.
// BirthTime and BirthPlace are carried but not used by the calculation.
type BirthDetails struct {
	Name       string
	BirthDate  time.Time
	BirthTime  *time.Time
	BirthPlace string
}

// NewBirthDetails validates raw request fields.
// Parameters:
//   - name: person's name, must not be blank.
//   - birthDate: date in YYYY-MM-DD form, not after today.
//   - birthTime: optional HH:MM.
//   - birthPlace: optional free text.
//   - today: the current calendar day.
//
// Returns:
//   - BirthDetails: validated details.
//   - error: *ValidationError describing the first invalid field.
func NewBirthDetails(name, birthDate, birthTime, birthPlace string, today time.Time) (BirthDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BirthDetails{}, NewValidationError("name", "name cannot be empty")
	}

	date, err := ParseBirthDate(birthDate, today)
	if err != nil {
		return BirthDetails{}, err
	}

	details := BirthDetails{
		Name:       name,
		BirthDate:  date,
		BirthPlace: strings.TrimSpace(birthPlace),
	}

	if bt := strings.TrimSpace(birthTime); bt != "" {
		t, err := time.Parse(TimeLayout, bt)
		if err != nil {
			return BirthDetails{}, NewValidationError("birth_time", "invalid birth_time format, use HH:MM")
		}
		details.BirthTime = &t
	}

	return details, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("birth_date", "birth date is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("birth_date", "invalid date format, use YYYY-MM-DD")
	}
	return t, nil
}

// ParseBirthDate parses a YYYY-MM-DD date and rejects days after today.
func ParseBirthDate(s string, today time.Time) (time.Time, error) {
	date, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if date.After(truncateDay(today)) {
		return time.Time{}, NewValidationError("birth_date", "birth date cannot be in the future")
	}
	return date, nil
}

// DayKey formats t as the ISO calendar day in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
