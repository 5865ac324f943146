package raceinfo

import (
	"reflect"
	"testing"
	"time"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

const derbyBlock = "東京 第11R 日本ダービー(G1) 芝2400m 良 2024年5月26日"

func TestExtractDerbyBlock(t *testing.T) {
	res := Extract(derbyBlock, models.DefaultParserConfig())
	if !res.Success() {
		t.Fatalf("expected success, diagnostics: %v", res.Diagnostics)
	}
	if res.ErrorCount() != 0 {
		t.Fatalf("expected zero errors, got %d", res.ErrorCount())
	}
	info := res.Info
	if info == nil {
		t.Fatal("expected RaceInfo")
	}
	if info.Venue != "東京" {
		t.Errorf("venue = %q", info.Venue)
	}
	if info.RaceNumber != 11 {
		t.Errorf("race number = %d", info.RaceNumber)
	}
	if info.DistanceMeters != 2400 || info.Surface != models.SurfaceTurf {
		t.Errorf("distance/surface = %d/%s", info.DistanceMeters, info.Surface)
	}
	if info.Condition != models.ConditionFirm {
		t.Errorf("condition = %s", info.Condition)
	}
	if info.RaceClass != models.ClassG1 {
		t.Errorf("class = %s", info.RaceClass)
	}
	if info.Title != "日本ダービー" {
		t.Errorf("title = %q", info.Title)
	}
	want := time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC)
	if !info.Date.Equal(want) {
		t.Errorf("date = %v", info.Date)
	}
}

func TestExtractMissingCriticalFields(t *testing.T) {
	// No venue, no distance: success must flip regardless of strictness.
	res := Extract("第11R メインレース (G2) 良", models.DefaultParserConfig())
	if res.Success() {
		t.Fatal("expected failure")
	}
	if res.Info != nil {
		t.Fatal("no RaceInfo should be returned on failure")
	}
	var errFields []string
	for _, d := range res.Diagnostics {
		if d.Severity == models.SeverityError {
			if d.Kind != models.KindRaceInfo {
				t.Errorf("kind = %s", d.Kind)
			}
			errFields = append(errFields, d.Field)
		}
	}
	if !reflect.DeepEqual(errFields, []string{"venue", "distance"}) {
		t.Errorf("error fields = %v", errFields)
	}
}

func TestExtractRaceNumberDefault(t *testing.T) {
	res := Extract("東京 日本ダービー(G1) 芝2400m 良 2024年5月26日", models.DefaultParserConfig())
	if !res.Success() {
		t.Fatalf("expected success, diagnostics: %v", res.Diagnostics)
	}
	if res.Info.RaceNumber != 11 {
		t.Errorf("race number = %d, want default 11", res.Info.RaceNumber)
	}
	found := false
	for _, d := range res.Diagnostics {
		if d.Field == "raceNumber" && d.Severity == models.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("expected a raceNumber warning for the defaulted value")
	}
}

func TestExtractLegacyLayoutStrategy(t *testing.T) {
	cfg := models.DefaultParserConfig()
	cfg.RaceInfoStrategy = models.StrategyLayout

	// Race-number marker is critical in the legacy strategy.
	res := Extract("東京 日本ダービー(G1) 芝2400m", cfg)
	if res.Success() {
		t.Fatal("legacy strategy must fail without a race-number marker")
	}

	// Line 0 is the title verbatim.
	block := "日本ダービー\n東京 第11R 芝2400m 良 2024年5月26日"
	res = Extract(block, cfg)
	if !res.Success() {
		t.Fatalf("expected success, diagnostics: %v", res.Diagnostics)
	}
	if res.Info.Title != "日本ダービー" {
		t.Errorf("title = %q", res.Info.Title)
	}
}

func TestExtractSoftFieldDefaults(t *testing.T) {
	res := Extract("中山 第10R 芝1600m", models.DefaultParserConfig())
	if !res.Success() {
		t.Fatalf("expected success, diagnostics: %v", res.Diagnostics)
	}
	info := res.Info
	if info.Condition != models.ConditionFirm {
		t.Errorf("condition default = %s", info.Condition)
	}
	if info.RaceClass != models.ClassOpen {
		t.Errorf("class default = %s", info.RaceClass)
	}
	if !info.Date.IsZero() {
		t.Errorf("date should stay unset, got %v", info.Date)
	}
	// condition, class and date each defaulted with a warning
	if res.WarningCount() != 3 {
		t.Errorf("warnings = %d, want 3: %v", res.WarningCount(), res.Diagnostics)
	}
}

func TestExtractStrictMode(t *testing.T) {
	cfg := models.DefaultParserConfig()
	cfg.Strict = true

	// Soft-field absence becomes an error in strict mode.
	res := Extract("中山 第10R 芝1600m", cfg)
	if res.Success() {
		t.Fatal("strict mode must fail on any missing field")
	}

	// A complete block still succeeds.
	res = Extract(derbyBlock, cfg)
	if !res.Success() {
		t.Fatalf("expected success, diagnostics: %v", res.Diagnostics)
	}
}

func TestExtractEmptyBlock(t *testing.T) {
	res := Extract("  \n \n", models.DefaultParserConfig())
	if res.Success() {
		t.Fatal("empty block must fail")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Field != "block" {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
}

// Idempotence: two calls over identical input and config yield identical
// structured output and diagnostics.
func TestExtractIdempotent(t *testing.T) {
	cfg := models.DefaultParserConfig()
	a := Extract(derbyBlock, cfg)
	b := Extract(derbyBlock, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("extraction is not idempotent")
	}
}
