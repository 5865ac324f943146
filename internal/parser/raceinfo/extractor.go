// Package raceinfo extracts one race's metadata from a pasted header block.
//
// Two strategies exist for historical reasons and are selectable through
// ParserConfig.RaceInfoStrategy:
//
//   - delimiter (canonical): fields are keyed on explicit markers (class tag,
//     第NR race marker). A missing race-number marker defaults to 11 with a
//     warning.
//   - layout (legacy): line 0 is the title and the race-number marker is a
//     critical field whose absence is an error.
//
// Both strategies scan the whole block for every field because fields may
// appear on any line, in any order, with layout noise around them.
package raceinfo

import (
	"strings"
	"time"

	"github.com/keibalab/keibanote/internal/parser/patterns"
	"github.com/keibalab/keibanote/internal/parser/textscan"
	"github.com/keibalab/keibanote/internal/pkg/models"
)

// defaultRaceNumber is the featured-race slot substituted when no explicit
// race-number marker is present. Always surfaced as a warning.
const defaultRaceNumber = 11

// Result of one race-info extraction call.
type Result struct {
	models.ExtractionResult
	Info *models.RaceInfo `json:"race_info,omitempty"`
}

type fieldScan struct {
	venue    string
	venueOK  bool
	number   int
	numberOK bool
	meters   int
	surface  models.Surface
	distOK   bool
	cond     models.TrackCondition
	condOK   bool
	class    models.RaceClass
	classOK  bool
	date     time.Time
	dateOK   bool
}

func scanFields(block string) fieldScan {
	var fs fieldScan
	fs.venue, _, fs.venueOK = patterns.MatchVenue(block)
	fs.number, _, fs.numberOK = patterns.MatchRaceNumber(block)
	fs.meters, fs.surface, _, fs.distOK = patterns.MatchDistanceSurface(block)
	fs.cond, _, fs.condOK = patterns.MatchTrackCondition(block)
	fs.class, _, fs.classOK = patterns.MatchRaceClass(block)
	fs.date, _, fs.dateOK = patterns.MatchDate(block)
	return fs
}

// Extract parses one race-info block. It never returns a Go error for
// malformed input: all findings land in the result's diagnostics list.
func Extract(text string, cfg models.ParserConfig) Result {
	var res Result
	if strings.TrimSpace(text) == "" {
		res.Add(models.NewError(models.KindRaceInfo, "block", "race-info block is empty", text))
		return res
	}

	fs := scanFields(text)
	legacy := cfg.RaceInfoStrategy == models.StrategyLayout

	// Critical fields: venue and distance+surface always, race number only
	// in the legacy layout strategy.
	if !fs.venueOK {
		res.Add(models.NewError(models.KindRaceInfo, "venue", "venue not recognized in race-info block", text))
	}
	if !fs.distOK {
		res.Add(models.NewError(models.KindRaceInfo, "distance", "distance and surface not recognized", text))
	}

	number := fs.number
	if !fs.numberOK {
		switch {
		case legacy:
			res.Add(models.NewError(models.KindRaceInfo, "raceNumber", "race-number marker (第NR) not found", text))
		case cfg.Strict:
			res.Add(models.NewError(models.KindRaceInfo, "raceNumber", "race-number marker (第NR) not found", text))
		default:
			number = defaultRaceNumber
			res.Add(models.NewWarning(models.KindRaceInfo, "raceNumber",
				"race-number marker not found, defaulting to race 11", text))
		}
	}

	// Soft fields default with a warning; strict mode turns the same
	// absence into an error.
	cond := fs.cond
	if !fs.condOK {
		if cfg.Strict {
			res.Add(models.NewError(models.KindRaceInfo, "condition", "track condition not found", text))
		} else {
			cond = models.ConditionFirm
			res.Add(models.NewWarning(models.KindRaceInfo, "condition",
				"track condition not found, defaulting to firm (良)", text))
		}
	}
	class := fs.class
	if !fs.classOK {
		if cfg.Strict {
			res.Add(models.NewError(models.KindRaceInfo, "class", "race class not found", text))
		} else {
			class = models.ClassOpen
			res.Add(models.NewWarning(models.KindRaceInfo, "class",
				"race class not found, defaulting to open", text))
		}
	}
	date := fs.date
	if !fs.dateOK {
		if cfg.Strict {
			res.Add(models.NewError(models.KindRaceInfo, "date", "race date not found", text))
		} else {
			res.Add(models.NewWarning(models.KindRaceInfo, "date",
				"race date not found, leaving unset", text))
		}
	}

	if !res.Success() {
		return res
	}

	res.Info = &models.RaceInfo{
		Venue:          fs.venue,
		RaceNumber:     number,
		Title:          extractTitle(text, legacy),
		DistanceMeters: fs.meters,
		Surface:        fs.surface,
		Condition:      cond,
		RaceClass:      class,
		Date:           date,
	}
	return res
}

// extractTitle picks the race title.
//
// Legacy layout: line 0 (first non-empty line) verbatim. Delimiter strategy:
// the line carrying the class tag (falling back to the race-number marker
// line, then line 0) with all recognized field tokens stripped away, so
// "東京 第11R 日本ダービー(G1) 芝2400m" yields "日本ダービー".
func extractTitle(text string, legacy bool) string {
	lines := textscan.SplitLines(text)
	first := ""
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			first = strings.TrimSpace(l)
			break
		}
	}
	if legacy {
		return first
	}

	titleLine := first
	for _, l := range lines {
		if _, _, ok := patterns.MatchRaceClass(l); ok {
			titleLine = l
			break
		}
		if _, _, ok := patterns.MatchRaceNumber(l); ok {
			titleLine = l
		}
	}
	if t := stripFieldTokens(titleLine); t != "" {
		return t
	}
	return first
}

// stripFieldTokens removes every recognized field token from a line and
// returns the trimmed remainder.
func stripFieldTokens(line string) string {
	rest := line
	if _, r, ok := patterns.MatchVenue(rest); ok {
		rest = r
	}
	if _, r, ok := patterns.MatchRaceNumber(rest); ok {
		rest = r
	}
	if _, r, ok := patterns.MatchRaceClass(rest); ok {
		rest = r
	}
	if _, _, r, ok := patterns.MatchDistanceSurface(rest); ok {
		rest = r
	}
	if _, r, ok := patterns.MatchTrackCondition(rest); ok {
		rest = r
	}
	if _, r, ok := patterns.MatchDate(rest); ok {
		rest = r
	}
	rest = strings.Trim(rest, " \t　()（）")
	return strings.Join(strings.Fields(rest), " ")
}
