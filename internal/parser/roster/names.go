package roster

import (
	"regexp"
	"strings"

	"github.com/keibalab/keibanote/internal/parser/patterns"
)

// Noise markers that disqualify a line from being a name candidate. The
// roster layout mixes the horse's names with weight, popularity, stable,
// running-style and rest-period lines; any of these tokens means the line
// is data, not a name.
var (
	weightUnitRe   = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:kg|ｋｇ|キロ)`)
	popularityRe   = regexp.MustCompile(`\d+\s*人気`)
	stableRe       = regexp.MustCompile(`美浦|栗東`)
	runningStyleRe = regexp.MustCompile(`逃げ|先行|差し|追込`)
	restRe         = regexp.MustCompile(`休養|放牧|\d+週`)
	replayRe       = regexp.MustCompile(`レース映像`)
	decimalLineRe  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	yearLineRe     = regexp.MustCompile(`^(?:19|20)\d{2}年?$`)
)

func isNoiseLine(line string) bool {
	if weightUnitRe.MatchString(line) ||
		popularityRe.MatchString(line) ||
		stableRe.MatchString(line) ||
		runningStyleRe.MatchString(line) ||
		restRe.MatchString(line) ||
		replayRe.MatchString(line) {
		return true
	}
	if _, _, _, _, ok := patterns.MatchGenderAgeCoat(line); ok {
		return true
	}
	return false
}

// nameCandidates collects the name-like lines of a fragment: the non-empty,
// non-noise, non-numeric lines before the gender/age/coat line (or the
// whole fragment when that line is absent).
func nameCandidates(lines []string) []string {
	var out []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, _, _, _, ok := patterns.MatchGenderAgeCoat(line); ok {
			break
		}
		if isNoiseLine(line) || decimalLineRe.MatchString(line) || yearLineRe.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ResolveDisplayName picks the racing (display) name from the filtered
// candidate lines. The layout lists the registered pedigree name first and
// the racing name second, so with two or more candidates the second one
// wins; a single candidate is taken as-is; zero candidates is a failure.
//
// This tie-break is an empirical heuristic over an external layout, kept as
// a named function so it stays documented and swappable.
func ResolveDisplayName(candidates []string) (string, bool) {
	switch {
	case len(candidates) >= 2:
		return candidates[1], true
	case len(candidates) == 1:
		return candidates[0], true
	default:
		return "", false
	}
}
