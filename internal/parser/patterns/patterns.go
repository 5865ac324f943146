// Package patterns is the shared field-pattern library for the pasted-text
// extractors. Every matcher tries a small ordered list of patterns and
// returns the first match plus the unmatched remainder; unmatched input
// yields ok=false, never an error. Pattern order is a documented contract:
// the most specific pattern always comes first, and the order is pinned by
// tests in this package.
package patterns

import (
	"regexp"
	"strconv"
	"time"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

// Pattern is one prioritized alternative inside a field matcher.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// apply tries patterns in order and returns the submatches of the first hit
// together with the input minus the matched span.
func apply(pats []Pattern, s string) (groups []string, rest string, ok bool) {
	for _, p := range pats {
		loc := p.Re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		m := p.Re.FindStringSubmatch(s)
		return m, s[:loc[0]] + s[loc[1]:], true
	}
	return nil, s, false
}

// jraVenues is the closed set of JRA racecourse names.
const jraVenues = `札幌|函館|福島|新潟|東京|中山|中京|京都|阪神|小倉`

var venuePatterns = []Pattern{
	{Name: "venue_with_suffix", Re: regexp.MustCompile(`(` + jraVenues + `)競馬場`)},
	{Name: "venue_bare", Re: regexp.MustCompile(`(` + jraVenues + `)`)},
}

// MatchVenue finds a JRA venue name anywhere in the fragment.
func MatchVenue(s string) (venue, rest string, ok bool) {
	m, rest, ok := apply(venuePatterns, s)
	if !ok {
		return "", s, false
	}
	return m[1], rest, true
}

var distanceSurfacePatterns = []Pattern{
	// 芝2400m / ダ1200 — surface token immediately before the meters.
	{Name: "surface_then_meters", Re: regexp.MustCompile(`(芝|ダート|ダ)\s*(\d{3,4})\s*[mｍ]?`)},
	// 2400m芝 — meters first, surface trailing.
	{Name: "meters_then_surface", Re: regexp.MustCompile(`(\d{3,4})\s*[mｍ]\s*(芝|ダート|ダ)`)},
}

// MatchDistanceSurface finds the course distance and surface.
func MatchDistanceSurface(s string) (meters int, surface models.Surface, rest string, ok bool) {
	m, rest, ok := apply(distanceSurfacePatterns, s)
	if !ok {
		return 0, "", s, false
	}
	var surfTok, meterTok string
	if _, err := strconv.Atoi(m[1]); err == nil {
		meterTok, surfTok = m[1], m[2]
	} else {
		surfTok, meterTok = m[1], m[2]
	}
	meters, _ = strconv.Atoi(meterTok)
	surface = models.SurfaceTurf
	if surfTok != "芝" {
		surface = models.SurfaceDirt
	}
	return meters, surface, rest, true
}

// Condition tokens are ordered longest-first inside the alternation so 稍重
// wins over 重 and 不良 over 良.
const conditionTokens = `稍重|不良|良|重`

var conditionPatterns = []Pattern{
	{Name: "condition_labeled", Re: regexp.MustCompile(`馬場(?:状態)?[:：]?\s*(` + conditionTokens + `)`)},
	// Bare token must stand alone between spaces/edges; 重賞 and the like
	// must not count as a going.
	{Name: "condition_bare", Re: regexp.MustCompile(`(?:^|[\s　])(` + conditionTokens + `)(?:[\s　]|$)`)},
}

var conditionByToken = map[string]models.TrackCondition{
	"良":  models.ConditionFirm,
	"稍重": models.ConditionGood,
	"重":  models.ConditionYielding,
	"不良": models.ConditionSoft,
}

// MatchTrackCondition finds the official going.
func MatchTrackCondition(s string) (cond models.TrackCondition, rest string, ok bool) {
	m, rest, ok := apply(conditionPatterns, s)
	if !ok {
		return "", s, false
	}
	return conditionByToken[m[1]], rest, true
}

var classPatterns = []Pattern{
	{Name: "grade_parenthesized", Re: regexp.MustCompile(`[(（]G([123ⅠⅡⅢ])[)）]`)},
	{Name: "grade_bare", Re: regexp.MustCompile(`G([123ⅠⅡⅢ])`)},
	{Name: "listed", Re: regexp.MustCompile(`リステッド|[(（]L[)）]`)},
	{Name: "open", Re: regexp.MustCompile(`オープン`)},
	{Name: "win_class", Re: regexp.MustCompile(`([123])勝クラス`)},
	{Name: "maiden", Re: regexp.MustCompile(`未勝利|新馬`)},
}

var gradeByDigit = map[string]models.RaceClass{
	"1": models.ClassG1, "Ⅰ": models.ClassG1,
	"2": models.ClassG2, "Ⅱ": models.ClassG2,
	"3": models.ClassG3, "Ⅲ": models.ClassG3,
}

var winClassByDigit = map[string]models.RaceClass{
	"1": models.ClassOne,
	"2": models.ClassTwo,
	"3": models.ClassThree,
}

// MatchRaceClass finds the class tier.
func MatchRaceClass(s string) (class models.RaceClass, rest string, ok bool) {
	for _, p := range classPatterns {
		loc := p.Re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		m := p.Re.FindStringSubmatch(s)
		rest = s[:loc[0]] + s[loc[1]:]
		switch p.Name {
		case "grade_parenthesized", "grade_bare":
			return gradeByDigit[m[1]], rest, true
		case "listed":
			return models.ClassListed, rest, true
		case "open":
			return models.ClassOpen, rest, true
		case "win_class":
			return winClassByDigit[m[1]], rest, true
		case "maiden":
			return models.ClassMaiden, rest, true
		}
	}
	return "", s, false
}

// Coat colors ordered longest-first so 黒鹿毛 wins over 鹿毛.
const coatTokens = `黒鹿毛|青鹿毛|栃栗毛|鹿毛|青毛|栗毛|芦毛|白毛`

var genderAgeCoatPatterns = []Pattern{
	{Name: "gender_age_coat", Re: regexp.MustCompile(`(牡|牝|セ)(\d{1,2})(` + coatTokens + `)`)},
	{Name: "gender_age", Re: regexp.MustCompile(`(牡|牝|セ)(\d{1,2})`)},
}

var genderByToken = map[string]models.Gender{
	"牡": models.GenderMale,
	"牝": models.GenderFemale,
	"セ": models.GenderGelding,
}

// MatchGenderAgeCoat finds the combined gender/age/coat triple (coat may be
// absent in compact layouts).
func MatchGenderAgeCoat(s string) (gender models.Gender, age int, coat string, rest string, ok bool) {
	m, rest, ok := apply(genderAgeCoatPatterns, s)
	if !ok {
		return "", 0, "", s, false
	}
	age, _ = strconv.Atoi(m[2])
	if len(m) > 3 {
		coat = m[3]
	}
	return genderByToken[m[1]], age, coat, rest, true
}

var datePatterns = []Pattern{
	{Name: "date_kanji", Re: regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日`)},
	{Name: "date_numeric", Re: regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})`)},
}

// MatchDate finds the race date.
func MatchDate(s string) (date time.Time, rest string, ok bool) {
	m, rest, ok := apply(datePatterns, s)
	if !ok {
		return time.Time{}, s, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, s, false
	}
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), rest, true
}

var raceNumberPatterns = []Pattern{
	{Name: "marker_kanji", Re: regexp.MustCompile(`第\s*(\d{1,2})\s*[Rr]`)},
	{Name: "marker_race_word", Re: regexp.MustCompile(`第\s*(\d{1,2})\s*レース`)},
	{Name: "marker_bare", Re: regexp.MustCompile(`(\d{1,2})R\b`)},
}

// MatchRaceNumber finds an explicit race-number marker (第11R and friends).
func MatchRaceNumber(s string) (number int, rest string, ok bool) {
	m, rest, ok := apply(raceNumberPatterns, s)
	if !ok {
		return 0, s, false
	}
	number, _ = strconv.Atoi(m[1])
	if number < 1 {
		return 0, s, false
	}
	return number, rest, true
}
