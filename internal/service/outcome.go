package service

import "github.com/timmy/astroinsight/internal/domain"

// OutcomeKind tells which path produced a text.
type OutcomeKind string

const (
	// OutcomeGenerated means the language model produced the text.
	OutcomeGenerated OutcomeKind = "generated"
	// OutcomeFallback means a local result replaced the remote one.
	OutcomeFallback OutcomeKind = "fallback"
	// OutcomeUnchanged means no work was needed (e.g. translating English to English).
	OutcomeUnchanged OutcomeKind = "unchanged"
)

// Outcome is the result of generation or translation. It is never an error:
// remote failures are reported through Kind and Reason.
type Outcome struct {
	Kind     OutcomeKind
	Text     string
	Language domain.Language
	Reason   string // why the fallback was used
}

// Generated tags text produced by the language model.
func Generated(text string, lang domain.Language) Outcome {
	return Outcome{Kind: OutcomeGenerated, Text: text, Language: lang}
}

// FallbackUsed tags a locally produced replacement.
func FallbackUsed(text string, lang domain.Language, reason string) Outcome {
	return Outcome{Kind: OutcomeFallback, Text: text, Language: lang, Reason: reason}
}

// Unchanged tags text passed through as is.
func Unchanged(text string, lang domain.Language) Outcome {
	return Outcome{Kind: OutcomeUnchanged, Text: text, Language: lang}
}

// IsFallback reports whether a fallback replaced the remote result.
func (o Outcome) IsFallback() bool {
	return o.Kind == OutcomeFallback
}
