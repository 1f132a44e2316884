package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewBirthDetails(t *testing.T) {
	today := time.Date(2026, time.October, 18, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		inName    string
		inDate    string
		inTime    string
		wantField string
	}{
		{name: "valid", inName: "Ritika", inDate: "1995-08-20"},
		{name: "valid with time", inName: "Ritika", inDate: "1995-08-20", inTime: "06:30"},
		{name: "born today", inName: "Baby", inDate: "2026-10-18"},
		{name: "empty name", inName: "", inDate: "1995-08-20", wantField: "name"},
		{name: "blank name", inName: "   ", inDate: "1995-08-20", wantField: "name"},
		{name: "missing date", inName: "Ritika", inDate: "", wantField: "birth_date"},
		{name: "malformed date", inName: "Ritika", inDate: "20-08-1995", wantField: "birth_date"},
		{name: "impossible date", inName: "Ritika", inDate: "1995-02-30", wantField: "birth_date"},
		{name: "future date", inName: "Ritika", inDate: "2026-10-19", wantField: "birth_date"},
		{name: "bad time", inName: "Ritika", inDate: "1995-08-20", inTime: "25:99", wantField: "birth_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := NewBirthDetails(tt.inName, tt.inDate, tt.inTime, "", today)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if details.Name == "" {
					t.Error("expected name to be set")
				}
				if tt.inTime != "" && details.BirthTime == nil {
					t.Error("expected birth time to be parsed")
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	if got := ParseLanguage(" HI "); got != LanguageHindi {
		t.Errorf("ParseLanguage = %q, want hi", got)
	}
	if got := LanguageHindi.DisplayName(); got != "Hindi (Devanagari script)" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := LanguageHindi.Name(); got != "Hindi" {
		t.Errorf("Name = %q", got)
	}
}

func TestRemoteServiceErrorUnwrap(t *testing.T) {
	base := errors.New("quota exceeded")
	err := NewRemoteServiceError("generate", base)
	if !errors.Is(err, base) {
		t.Error("expected RemoteServiceError to unwrap to its cause")
	}
	if IsValidationError(err) {
		t.Error("remote error must not classify as validation error")
	}
}
