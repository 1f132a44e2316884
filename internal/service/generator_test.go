package service

import (
	"context"
	"strings"
	"testing"

	"github.com/timmy/astroinsight/internal/domain"
)

func leo() domain.ZodiacInfo {
	info, _ := domain.LookupZodiac(domain.SignLeo)
	return info
}

func TestGenerate_NoCredentialNeverCallsRemote(t *testing.T) {
	svc := NewGeneratorService(nil)

	for _, useRemote := range []bool{true, false} {
		out := svc.Generate(context.Background(), GenerateRequest{
			Name:      "Ritika",
			Zodiac:    leo(),
			Language:  domain.LanguageHindi,
			Day:       fixedDay,
			UseRemote: useRemote,
		})
		if !out.IsFallback() {
			t.Errorf("UseRemote=%v: expected fallback, got %s", useRemote, out.Kind)
		}
		if out.Language != domain.LanguageEnglish {
			t.Errorf("fallback text language = %s, want en", out.Language)
		}
		if out.Text != FallbackInsight("Ritika", domain.SignLeo, fixedDay) {
			t.Errorf("unexpected fallback text %q", out.Text)
		}
	}
}

func TestGenerate_RemoteDisabledSkipsCompleter(t *testing.T) {
	completer := &fakeCompleter{reply: "remote"}
	svc := NewGeneratorService(completer)

	out := svc.Generate(context.Background(), GenerateRequest{Name: "A", Zodiac: leo(), Day: fixedDay})
	if !out.IsFallback() || out.Reason != "remote generation disabled" {
		t.Errorf("got %+v", out)
	}
	if completer.calls.Load() != 0 {
		t.Errorf("completer called %d times", completer.calls.Load())
	}
}

func TestGenerate_RemoteFailureEqualsRuleBased(t *testing.T) {
	completer := &fakeCompleter{err: errQuota}
	svc := NewGeneratorService(completer)

	out := svc.Generate(context.Background(), GenerateRequest{
		Name:      "Ritika",
		Zodiac:    leo(),
		Language:  domain.LanguageEnglish,
		Day:       fixedDay,
		UseRemote: true,
	})

	want := NewGeneratorService(nil).Generate(context.Background(), GenerateRequest{
		Name: "Ritika", Zodiac: leo(), Language: domain.LanguageEnglish, Day: fixedDay,
	})
	if out.Text != want.Text {
		t.Errorf("fallback text = %q, want %q", out.Text, want.Text)
	}
	if !out.IsFallback() || out.Reason != "remote chat completion failed" {
		t.Errorf("unexpected outcome %+v", out)
	}
	if completer.calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", completer.calls.Load())
	}
}

func TestGenerate_RemoteSuccess(t *testing.T) {
	completer := &fakeCompleter{reply: "आज का दिन शुभ है।"}
	svc := NewGeneratorService(completer)

	out := svc.Generate(context.Background(), GenerateRequest{
		Name:      "Ritika",
		Zodiac:    leo(),
		Language:  domain.LanguageHindi,
		Day:       fixedDay,
		UseRemote: true,
	})
	if out.Kind != OutcomeGenerated || out.Language != domain.LanguageHindi {
		t.Fatalf("unexpected outcome %+v", out)
	}

	req := completer.lastRequest()
	if req.MaxTokens != 150 || req.Temperature != 0.8 {
		t.Errorf("unexpected limits: %d tokens, temperature %v", req.MaxTokens, req.Temperature)
	}
	for _, want := range []string{"Ritika", "Leo", "Fire", "confident, generous, warm-hearted", "Sunday", "Hindi (Devanagari script)"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
	if strings.Contains(req.Prompt, "creative") {
		t.Error("prompt should only include the first three traits")
	}
}

func TestFallbackInsight(t *testing.T) {
	// Oct 18 2026 is day 291; 291 % 3 == 0.
	got := FallbackInsight("Ritika", domain.SignLeo, fixedDay)
	want := "Ritika, your innate leadership and warmth will shine today. Embrace spontaneity."
	if got != want {
		t.Errorf("FallbackInsight = %q, want %q", got, want)
	}

	if got := FallbackInsight("", domain.SignLeo, fixedDay.AddDate(0, 0, 1)); got != "Creative pursuits will bring you joy and recognition." {
		t.Errorf("unexpected rotation: %q", got)
	}

	if got := FallbackInsight("", domain.Sign("Ophiuchus"), fixedDay); got != fallbackInsights[domain.SignAries][0] {
		t.Errorf("unknown sign should use the Aries pool, got %q", got)
	}

	for _, sign := range []domain.Sign{
		domain.SignAries, domain.SignTaurus, domain.SignGemini, domain.SignCancer,
		domain.SignLeo, domain.SignVirgo, domain.SignLibra, domain.SignScorpio,
		domain.SignSagittarius, domain.SignCapricorn, domain.SignAquarius, domain.SignPisces,
	} {
		if len(fallbackInsights[sign]) != 3 {
			t.Errorf("%s has %d fallback lines, want 3", sign, len(fallbackInsights[sign]))
		}
	}
}
