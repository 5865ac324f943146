// Package roster extracts per-horse records from a pasted roster block.
//
// The block lists every entrant back-to-back with no hard delimiter other
// than the post-position marker lines; extraction segments on those markers
// and then works each fragment independently, so one bad entry never
// discards the rest of a 16+ horse field.
package roster

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/keibalab/keibanote/internal/parser/patterns"
	"github.com/keibalab/keibanote/internal/parser/textscan"
	"github.com/keibalab/keibanote/internal/pkg/models"
)

var (
	// jockeyNameRe is deliberately permissive: a short human-name-like
	// token (kanji, kana, latin incl. the C.ルメール style initial).
	jockeyNameRe = regexp.MustCompile(`^[\p{Han}\p{Hiragana}\p{Katakana}\p{Latin}ー・．.]{2,10}$`)
	// assignedWeightRe reads the carried weight from the line following the
	// jockey name when it starts with a decimal number.
	assignedWeightRe = regexp.MustCompile(`^(\d{2}(?:\.\d)?)`)
	// trainerRe keys on the stable-location marker: 栗東・友道 and friends.
	trainerRe = regexp.MustCompile(`(美浦|栗東)\s*[・･/／:：]?\s*([^\s(（]+)`)
)

// Result of one roster extraction call. Horses keep their order of
// appearance in the block.
type Result struct {
	models.ExtractionResult
	Horses []models.HorseRecord `json:"horses"`
}

// Extract parses one roster block. Fragment failures are contained: with
// cfg.SkipInvalidHorses the failed fragment's errors are downgraded to
// warnings and the fragment is omitted, otherwise the errors stand and the
// roster as a whole is unsuccessful.
func Extract(text string, cfg models.ParserConfig) Result {
	var res Result

	frags := segment(textscan.SplitLines(text))
	for i := range frags {
		rec, diags := extractHorse(&frags[i])
		failed := false
		for _, d := range diags {
			if d.Severity == models.SeverityError {
				failed = true
				break
			}
		}
		if failed {
			if cfg.SkipInvalidHorses {
				for _, d := range diags {
					if d.Severity == models.SeverityError {
						d = d.Downgraded()
					}
					res.Add(d)
				}
			} else {
				res.Add(diags...)
			}
			continue
		}
		res.Add(diags...)
		res.Horses = append(res.Horses, rec)
	}

	if len(res.Horses) == 0 {
		msg := "no post-position marker lines found in roster block"
		if len(frags) > 0 {
			msg = "no horse could be extracted from the roster block"
		}
		res.Add(models.NewError(models.KindHorseData, "roster", msg, text))
	}
	if cfg.MaxHorses > 0 && len(res.Horses) > cfg.MaxHorses {
		res.Add(models.NewWarning(models.KindHorseData, "roster",
			fmt.Sprintf("extracted %d horses, more than the expected maximum of %d", len(res.Horses), cfg.MaxHorses), ""))
	}
	return res
}

// extractHorse works one fragment. Missing name, gender/age or jockey is an
// error; a missing trainer is only a warning.
func extractHorse(frag *Fragment) (models.HorseRecord, []models.Diagnostic) {
	rec := models.HorseRecord{Number: frag.HorseNumber}
	var diags []models.Diagnostic
	fragText := strings.Join(frag.Lines, "\n")

	name, ok := ResolveDisplayName(nameCandidates(frag.Lines))
	if ok {
		rec.Name = name
	} else {
		diags = append(diags, models.NewError(models.KindHorseData, "name",
			fmt.Sprintf("no display-name candidate for horse %d", frag.HorseNumber), fragText).AtLine(frag.MarkerLine))
	}

	gaIdx := -1
	for i, line := range frag.Lines {
		gender, age, coat, _, found := patterns.MatchGenderAgeCoat(line)
		if found {
			rec.Gender, rec.Age, rec.CoatColor = gender, age, coat
			gaIdx = i
			break
		}
	}
	if gaIdx < 0 {
		diags = append(diags, models.NewError(models.KindHorseData, "genderAge",
			fmt.Sprintf("gender/age/coat line not found for horse %d", frag.HorseNumber), fragText).AtLine(frag.MarkerLine))
	} else {
		// The jockey can only be located relative to the gender/age line,
		// so this scan is skipped (and no second error emitted) when that
		// line is missing.
		jockeyIdx := findJockey(frag, gaIdx, &rec)
		if jockeyIdx < 0 {
			diags = append(diags, models.NewError(models.KindHorseData, "jockey",
				fmt.Sprintf("jockey name not found for horse %d", frag.HorseNumber), fragText).AtLine(frag.MarkerLine))
		}
	}

	if m := trainerRe.FindStringSubmatch(fragText); m != nil {
		rec.TrainerName = m[2]
	} else {
		diags = append(diags, models.NewWarning(models.KindHorseData, "trainer",
			fmt.Sprintf("trainer not found for horse %d", frag.HorseNumber), "").AtLine(frag.MarkerLine))
	}

	return rec, diags
}

// findJockey scans the lines after the gender/age line for the first short
// human-name-like token, skipping blanks and known non-name lines. The line
// immediately after the jockey supplies the assigned weight when it starts
// with a decimal number. Returns the index of the jockey line or -1.
func findJockey(frag *Fragment, gaIdx int, rec *models.HorseRecord) int {
	for i := gaIdx + 1; i < len(frag.Lines); i++ {
		line := strings.TrimSpace(frag.Lines[i])
		if line == "" {
			continue
		}
		if !isJockeyCandidate(line) {
			continue
		}
		rec.JockeyName = line
		if i+1 < len(frag.Lines) {
			next := strings.TrimSpace(frag.Lines[i+1])
			if m := assignedWeightRe.FindStringSubmatch(next); m != nil {
				rec.WeightKg, _ = strconv.ParseFloat(m[1], 64)
			}
		}
		return i
	}
	return -1
}

func isJockeyCandidate(line string) bool {
	if stableRe.MatchString(line) ||
		runningStyleRe.MatchString(line) ||
		weightUnitRe.MatchString(line) ||
		popularityRe.MatchString(line) ||
		restRe.MatchString(line) ||
		replayRe.MatchString(line) ||
		decimalLineRe.MatchString(line) ||
		yearLineRe.MatchString(line) {
		return false
	}
	return jockeyNameRe.MatchString(line)
}
