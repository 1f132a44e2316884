package service

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/timmy/astroinsight/internal/domain"
)

// fallbackInsights are the canned English insights, three per sign.
var fallbackInsights = map[domain.Sign][]string{
	domain.SignAries: {
		"Your natural courage will help you face challenges head-on today.",
		"Channel your energy into productive pursuits and avoid hasty decisions.",
		"Leadership opportunities may arise - trust your instincts.",
	},
	domain.SignTaurus: {
		"Your grounded nature will help you handle unexpected situations with grace.",
		"Focus on building stability and nurturing important relationships.",
		"Trust in your practical approach to solve today's challenges.",
	},
	domain.SignGemini: {
		"Your adaptability and communication skills will be your greatest assets today.",
		"Stay curious and open to new ideas that come your way.",
		"Connect with others and share your versatile perspective.",
	},
	domain.SignCancer: {
		"Trust your intuition as you navigate emotional situations today.",
		"Your nurturing nature will bring comfort to those around you.",
		"Create a safe space for yourself and honor your feelings.",
	},
	domain.SignLeo: {
		"Your innate leadership and warmth will shine today. Embrace spontaneity.",
		"Creative pursuits will bring you joy and recognition.",
		"Let your generous spirit guide your interactions with others.",
	},
	domain.SignVirgo: {
		"Your analytical mind will help you solve complex problems today.",
		"Pay attention to details, but don't lose sight of the bigger picture.",
		"Your practical approach will be appreciated by those around you.",
	},
	domain.SignLibra: {
		"Seek harmony in your relationships and trust your diplomatic nature.",
		"Balance is key - find time for both work and personal pursuits.",
		"Your fair-minded approach will help resolve conflicts gracefully.",
	},
	domain.SignScorpio: {
		"Your passion and determination will drive you toward your goals today.",
		"Trust your deep intuition and embrace transformation.",
		"Channel your intensity into meaningful pursuits.",
	},
	domain.SignSagittarius: {
		"Your optimistic outlook will open new doors and opportunities.",
		"Embrace adventure and let your philosophical nature guide you.",
		"Share your wisdom and inspire others with your honesty.",
	},
	domain.SignCapricorn: {
		"Your discipline and ambition will bring progress toward your goals.",
		"Patient persistence will yield rewards - stay focused on your path.",
		"Your responsible approach will earn respect and recognition.",
	},
	domain.SignAquarius: {
		"Your innovative thinking will lead to breakthrough solutions today.",
		"Embrace your independence while staying connected to your community.",
		"Let your humanitarian spirit guide your actions.",
	},
	domain.SignPisces: {
		"Your compassionate nature will bring healing to those around you.",
		"Trust your artistic intuition and express yourself creatively.",
		"Your gentle wisdom will guide others through difficult times.",
	},
}

// FallbackInsight returns the rule-based insight for sign on day, addressed to name.
// The line rotates with the day of year; unknown signs use the Aries pool.
func FallbackInsight(name string, sign domain.Sign, day time.Time) string {
	lines, ok := fallbackInsights[sign]
	if !ok {
		lines = fallbackInsights[domain.SignAries]
	}
	line := lines[day.YearDay()%len(lines)]

	if name == "" {
		return line
	}
	return name + ", " + lowerFirst(line)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
