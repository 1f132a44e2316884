package domain

import (
	"strings"
	"time"
)

// Sign is one of the twelve tropical zodiac signs.
type Sign string

const (
	SignAries       Sign = "Aries"
	SignTaurus      Sign = "Taurus"
	SignGemini      Sign = "Gemini"
	SignCancer      Sign = "Cancer"
	SignLeo         Sign = "Leo"
	SignVirgo       Sign = "Virgo"
	SignLibra       Sign = "Libra"
	SignScorpio     Sign = "Scorpio"
	SignSagittarius Sign = "Sagittarius"
	SignCapricorn   Sign = "Capricorn"
	SignAquarius    Sign = "Aquarius"
	SignPisces      Sign = "Pisces"
)

// Element is the classical element associated with a sign.
type Element string

const (
	ElementFire  Element = "Fire"
	ElementEarth Element = "Earth"
	ElementAir   Element = "Air"
	ElementWater Element = "Water"
)

// ZodiacInfo holds the static attributes of a sign.
type ZodiacInfo struct {
	Sign         Sign     `json:"sign"`
	Element      Element  `json:"element"`
	RulingPlanet string   `json:"ruling_planet"`
	Traits       []string `json:"traits"`
	DateRange    string   `json:"date_range"`
}

// monthDay orders calendar days within a year, ignoring the year itself.
type monthDay struct {
	month time.Month
	day   int
}

func (m monthDay) before(o monthDay) bool {
	if m.month != o.month {
		return m.month < o.month
	}
	return m.day < o.day
}

func (m monthDay) within(start, end monthDay) bool {
	if end.before(start) {
		// Wraps the new year (Capricorn).
		return !m.before(start) || !end.before(m)
	}
	return !m.before(start) && !end.before(m)
}

type signRange struct {
	sign  Sign
	start monthDay
	end   monthDay
}

// signRanges partitions the year; every month-day falls in exactly one range.
var signRanges = []signRange{
	{SignCapricorn, monthDay{time.December, 22}, monthDay{time.January, 19}},
	{SignAquarius, monthDay{time.January, 20}, monthDay{time.February, 18}},
	{SignPisces, monthDay{time.February, 19}, monthDay{time.March, 20}},
	{SignAries, monthDay{time.March, 21}, monthDay{time.April, 19}},
	{SignTaurus, monthDay{time.April, 20}, monthDay{time.May, 20}},
	{SignGemini, monthDay{time.May, 21}, monthDay{time.June, 20}},
	{SignCancer, monthDay{time.June, 21}, monthDay{time.July, 22}},
	{SignLeo, monthDay{time.July, 23}, monthDay{time.August, 22}},
	{SignVirgo, monthDay{time.August, 23}, monthDay{time.September, 22}},
	{SignLibra, monthDay{time.September, 23}, monthDay{time.October, 22}},
	{SignScorpio, monthDay{time.October, 23}, monthDay{time.November, 21}},
	{SignSagittarius, monthDay{time.November, 22}, monthDay{time.December, 21}},
}

// signOrder lists signs in calendar order starting at the spring equinox.
var signOrder = []Sign{
	SignAries, SignTaurus, SignGemini, SignCancer, SignLeo, SignVirgo,
	SignLibra, SignScorpio, SignSagittarius, SignCapricorn, SignAquarius, SignPisces,
}

var zodiacTable = map[Sign]ZodiacInfo{
	SignAries: {
		Element:      ElementFire,
		RulingPlanet: "Mars",
		Traits:       []string{"courageous", "confident", "enthusiastic", "impulsive", "energetic"},
		DateRange:    "March 21 - April 19",
	},
	SignTaurus: {
		Element:      ElementEarth,
		RulingPlanet: "Venus",
		Traits:       []string{"reliable", "patient", "practical", "devoted", "stable"},
		DateRange:    "April 20 - May 20",
	},
	SignGemini: {
		Element:      ElementAir,
		RulingPlanet: "Mercury",
		Traits:       []string{"adaptable", "curious", "communicative", "witty", "versatile"},
		DateRange:    "May 21 - June 20",
	},
	SignCancer: {
		Element:      ElementWater,
		RulingPlanet: "Moon",
		Traits:       []string{"intuitive", "emotional", "nurturing", "protective", "sensitive"},
		DateRange:    "June 21 - July 22",
	},
	SignLeo: {
		Element:      ElementFire,
		RulingPlanet: "Sun",
		Traits:       []string{"confident", "generous", "warm-hearted", "creative", "charismatic"},
		DateRange:    "July 23 - August 22",
	},
	SignVirgo: {
		Element:      ElementEarth,
		RulingPlanet: "Mercury",
		Traits:       []string{"analytical", "practical", "meticulous", "reliable", "modest"},
		DateRange:    "August 23 - September 22",
	},
	SignLibra: {
		Element:      ElementAir,
		RulingPlanet: "Venus",
		Traits:       []string{"diplomatic", "fair-minded", "social", "gracious", "cooperative"},
		DateRange:    "September 23 - October 22",
	},
	SignScorpio: {
		Element:      ElementWater,
		RulingPlanet: "Pluto",
		Traits:       []string{"passionate", "resourceful", "brave", "determined", "intense"},
		DateRange:    "October 23 - November 21",
	},
	SignSagittarius: {
		Element:      ElementFire,
		RulingPlanet: "Jupiter",
		Traits:       []string{"optimistic", "adventurous", "philosophical", "freedom-loving", "honest"},
		DateRange:    "November 22 - December 21",
	},
	SignCapricorn: {
		Element:      ElementEarth,
		RulingPlanet: "Saturn",
		Traits:       []string{"disciplined", "responsible", "ambitious", "patient", "practical"},
		DateRange:    "December 22 - January 19",
	},
	SignAquarius: {
		Element:      ElementAir,
		RulingPlanet: "Uranus",
		Traits:       []string{"progressive", "independent", "humanitarian", "original", "intellectual"},
		DateRange:    "January 20 - February 18",
	},
	SignPisces: {
		Element:      ElementWater,
		RulingPlanet: "Neptune",
		Traits:       []string{"compassionate", "artistic", "intuitive", "gentle", "wise"},
		DateRange:    "February 19 - March 20",
	},
}

// SignFor returns the sign whose range contains the month and day of t.
func SignFor(t time.Time) Sign {
	md := monthDay{t.Month(), t.Day()}
	for _, r := range signRanges {
		if md.within(r.start, r.end) {
			return r.sign
		}
	}
	// Unreachable while signRanges covers the whole year.
	return SignCapricorn
}

// ResolveZodiac maps a calendar date to its sign and static attributes.
func ResolveZodiac(t time.Time) ZodiacInfo {
	info, _ := LookupZodiac(SignFor(t))
	return info
}

// LookupZodiac returns a copy of the attributes of sign.
func LookupZodiac(sign Sign) (ZodiacInfo, bool) {
	info, ok := zodiacTable[sign]
	if !ok {
		return ZodiacInfo{}, false
	}
	info.Sign = sign
	info.Traits = append([]string(nil), info.Traits...)
	return info, true
}

// AllZodiac returns every sign's attributes, Aries first.
func AllZodiac() []ZodiacInfo {
	out := make([]ZodiacInfo, 0, len(signOrder))
	for _, s := range signOrder {
		info, _ := LookupZodiac(s)
		out = append(out, info)
	}
	return out
}

// Index returns the sign's position in calendar order, or -1.
func (s Sign) Index() int {
	for i, o := range signOrder {
		if o == s {
			return i
		}
	}
	return -1
}

// ParseSign matches a sign name case-insensitively.
func ParseSign(s string) (Sign, bool) {
	s = strings.TrimSpace(s)
	for _, sign := range signOrder {
		if strings.EqualFold(string(sign), s) {
			return sign, true
		}
	}
	return "", false
}
