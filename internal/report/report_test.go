package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

func result(diags ...models.Diagnostic) models.ExtractionResult {
	return models.ExtractionResult{Diagnostics: diags}
}

func TestGenerateEmpty(t *testing.T) {
	r := Generate(nil)
	if r.Summary != "parsing completed successfully" {
		t.Errorf("summary = %q", r.Summary)
	}
	if r.TotalErrors != 0 || r.TotalWarnings != 0 {
		t.Errorf("totals = %d/%d", r.TotalErrors, r.TotalWarnings)
	}
	if len(r.Suggestions) != 0 {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
	if r.GeneratedAt.IsZero() {
		t.Error("generated at not set")
	}
}

func TestGenerateGroupsAndCounts(t *testing.T) {
	r := Generate([]models.ExtractionResult{
		result(
			models.NewError(models.KindRaceInfo, "venue", "venue not recognized", "block"),
			models.NewWarning(models.KindRaceInfo, "date", "date defaulted", ""),
		),
		result(models.NewWarning(models.KindHorseData, "trainer", "trainer not found", "")),
		result(models.NewWarning(models.KindOddsData, "placeOdds", "unparsable place odds", "x")),
	})
	if r.TotalErrors != 1 || r.TotalWarnings != 3 {
		t.Errorf("totals = %d/%d", r.TotalErrors, r.TotalWarnings)
	}
	if len(r.ByKind[models.KindRaceInfo]) != 2 {
		t.Errorf("race_info group = %v", r.ByKind[models.KindRaceInfo])
	}
	if r.Summary != "1 error, 3 warnings" {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestSuggestionsKeyedByFields(t *testing.T) {
	r := Generate([]models.ExtractionResult{
		result(
			models.NewError(models.KindRaceInfo, "venue", "venue not recognized", ""),
			models.NewError(models.KindRaceInfo, "distance", "distance not recognized", ""),
		),
		result(models.NewError(models.KindHorseData, "name", "no name candidate", "")),
		result(models.NewWarning(models.KindOddsData, "placeOdds", "unparsable", "")),
	})
	if len(r.Suggestions) != 4 {
		t.Fatalf("suggestions = %v", r.Suggestions)
	}
	checks := []string{"venue spelling", "distance notation", "gender-token", "min - max"}
	for i, want := range checks {
		if !strings.Contains(r.Suggestions[i], want) {
			t.Errorf("suggestion %d = %q, want it to mention %q", i, r.Suggestions[i], want)
		}
	}
}

func TestSuggestionsDeduplicated(t *testing.T) {
	r := Generate([]models.ExtractionResult{
		result(
			models.NewWarning(models.KindHorseData, "trainer", "a", ""),
			models.NewError(models.KindHorseData, "name", "b", ""),
		),
	})
	if len(r.Suggestions) != 1 {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestRenderTextShape(t *testing.T) {
	r := Generate([]models.ExtractionResult{
		result(models.NewError(models.KindRaceInfo, "venue", "venue not recognized", strings.Repeat("東", 60)).AtLine(2)),
	})
	text := RenderText(r)
	lines := strings.Split(text, "\n")
	if !strings.HasPrefix(lines[0], "=== ") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "generated at: ") {
		t.Errorf("generated-at line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "summary: 1 error, 0 warnings") {
		t.Errorf("summary line = %q", lines[2])
	}
	if !strings.Contains(text, "[race_info] 1 error, 0 warnings") {
		t.Errorf("missing kind section:\n%s", text)
	}
	if !strings.Contains(text, "(line 2)") {
		t.Errorf("missing line number:\n%s", text)
	}
	// snippet is cut to 50 runes plus an ellipsis
	if !strings.Contains(text, strings.Repeat("東", 50)+"...") {
		t.Errorf("snippet not truncated:\n%s", text)
	}
	if strings.Contains(text, strings.Repeat("東", 51)) {
		t.Errorf("snippet too long:\n%s", text)
	}
	if !strings.Contains(text, "suggestions:\n  1. ") {
		t.Errorf("missing numbered suggestions:\n%s", text)
	}
}

func TestRenderTextSuccess(t *testing.T) {
	text := RenderText(Generate(nil))
	if !strings.Contains(text, "summary: parsing completed successfully") {
		t.Errorf("text = %q", text)
	}
	if strings.Contains(text, "suggestions:") {
		t.Errorf("no suggestions section expected:\n%s", text)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	r := Generate([]models.ExtractionResult{
		result(models.NewError(models.KindValidation, "number", "duplicate horse number 4", "")),
	})
	data, err := RenderJSON(r)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var back models.Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.TotalErrors != r.TotalErrors || back.Summary != r.Summary {
		t.Errorf("round trip mismatch: %+v vs %+v", back, r)
	}
	if len(back.ByKind[models.KindValidation]) != 1 {
		t.Errorf("by_kind lost: %+v", back.ByKind)
	}
	if len(back.Suggestions) != len(r.Suggestions) {
		t.Errorf("suggestions lost")
	}
}
