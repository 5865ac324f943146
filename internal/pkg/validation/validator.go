// Package validation checks cross-record invariants after extraction.
// Violations become validation-kind diagnostics, never Go errors: the
// records stay as extracted (duplicates are reported, not dropped) and the
// caller decides what to do.
package validation

import (
	"fmt"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

// ValidateHorses reports duplicate horse numbers within one roster result.
func ValidateHorses(horses []models.HorseRecord) []models.Diagnostic {
	var diags []models.Diagnostic
	seen := make(map[int]bool, len(horses))
	for _, h := range horses {
		if seen[h.Number] {
			diags = append(diags, models.NewError(models.KindValidation, "number",
				fmt.Sprintf("duplicate horse number %d in roster", h.Number), h.Name))
			continue
		}
		seen[h.Number] = true
	}
	return diags
}

// ValidateOdds reports invariant violations in an odds result: horse
// numbers must be positive, directly extracted odds must be >= 1.0, and the
// place range must not be inverted. Approximated records are exempt from
// the >= 1.0 floor — win/3 legitimately falls below it for short-priced
// favorites.
func ValidateOdds(odds []models.OddsRecord) []models.Diagnostic {
	var diags []models.Diagnostic
	for _, o := range odds {
		if o.HorseNumber <= 0 {
			diags = append(diags, models.NewError(models.KindValidation, "horseNumber",
				fmt.Sprintf("non-positive horse number %d in odds", o.HorseNumber), ""))
		}
		if o.PlaceOddsMax < o.PlaceOddsMin {
			diags = append(diags, models.NewError(models.KindValidation, "placeOdds",
				fmt.Sprintf("inverted place odds range %.2f - %.2f for horse %d",
					o.PlaceOddsMin, o.PlaceOddsMax, o.HorseNumber), ""))
		}
		if o.Approximated {
			continue
		}
		if o.WinOdds < 1.0 {
			diags = append(diags, models.NewError(models.KindValidation, "winOdds",
				fmt.Sprintf("win odds %.2f below 1.0 for horse %d", o.WinOdds, o.HorseNumber), ""))
		}
		if o.PlaceOddsMin < 1.0 {
			diags = append(diags, models.NewError(models.KindValidation, "placeOdds",
				fmt.Sprintf("place odds %.2f below 1.0 for horse %d", o.PlaceOddsMin, o.HorseNumber), ""))
		}
	}
	return diags
}

// Validate runs every cross-record check and wraps the findings as one
// extraction result, ready for the report aggregator.
func Validate(horses []models.HorseRecord, odds []models.OddsRecord) models.ExtractionResult {
	var res models.ExtractionResult
	res.Add(ValidateHorses(horses)...)
	res.Add(ValidateOdds(odds)...)
	return res
}
