// Package report aggregates extraction diagnostics into one combined
// report with canned remediation suggestions, and renders it for humans
// (line-oriented text) and machines (JSON). A report is derived purely
// from the diagnostics; only GeneratedAt varies between regenerations.
package report

import (
	"strconv"
	"time"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

// summarySuccess is the summary line when no diagnostics were produced.
const summarySuccess = "parsing completed successfully"

// kindOrder fixes the iteration order of per-kind sections and suggestions.
var kindOrder = []models.DiagnosticKind{
	models.KindRaceInfo,
	models.KindHorseData,
	models.KindOddsData,
	models.KindValidation,
}

// Generate flattens the diagnostics of all extraction results, groups them
// by kind, and derives counts plus the fixed-rule suggestions list.
func Generate(results []models.ExtractionResult) models.Report {
	r := models.Report{
		ByKind:      make(map[models.DiagnosticKind][]models.Diagnostic),
		GeneratedAt: time.Now().UTC(),
	}
	for _, res := range results {
		for _, d := range res.Diagnostics {
			r.ByKind[d.Kind] = append(r.ByKind[d.Kind], d)
			switch d.Severity {
			case models.SeverityError:
				r.TotalErrors++
			case models.SeverityWarning:
				r.TotalWarnings++
			}
		}
	}
	r.Summary = summaryLine(r.TotalErrors, r.TotalWarnings)
	r.Suggestions = suggestions(r.ByKind)
	return r
}

func summaryLine(errors, warnings int) string {
	if errors == 0 && warnings == 0 {
		return summarySuccess
	}
	return plural(errors, "error") + ", " + plural(warnings, "warning")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// suggestions applies the fixed remediation rules: per kind present, one or
// more canned strings keyed by which fields appeared.
func suggestions(byKind map[models.DiagnosticKind][]models.Diagnostic) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, kind := range kindOrder {
		diags := byKind[kind]
		if len(diags) == 0 {
			continue
		}
		switch kind {
		case models.KindRaceInfo:
			fields := fieldSet(diags)
			if fields["venue"] {
				add("check the venue spelling against the JRA venue list (札幌, 函館, 福島, 新潟, 東京, 中山, 中京, 京都, 阪神, 小倉)")
			}
			if fields["distance"] {
				add("check the distance notation: surface token plus meters, e.g. 芝2400m or ダ1200m")
			}
			if fields["raceNumber"] {
				add("check for an explicit race-number marker such as 第11R")
			}
			if fields["condition"] || fields["class"] || fields["date"] {
				add("soft fields (condition, class, date) were defaulted; paste the full race header to fill them")
			}
		case models.KindHorseData:
			add("check the roster field order and the gender-token spelling (牡/牝/セ) in each entry")
		case models.KindOddsData:
			add("check the place-odds separator: the odds table expects a \"min - max\" pair")
		case models.KindValidation:
			add("remove duplicate horse numbers and check that place odds ranges are not inverted")
		}
	}
	return out
}

func fieldSet(diags []models.Diagnostic) map[string]bool {
	set := make(map[string]bool, len(diags))
	for _, d := range diags {
		set[d.Field] = true
	}
	return set
}
