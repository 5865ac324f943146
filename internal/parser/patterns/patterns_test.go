package patterns

import (
	"testing"
	"time"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

func TestMatchVenue(t *testing.T) {
	tests := []struct {
		in    string
		venue string
		ok    bool
	}{
		{"東京 第11R 日本ダービー", "東京", true},
		{"中山競馬場 第10R", "中山", true},
		{"どこかの草競馬", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		venue, _, ok := MatchVenue(tt.in)
		if ok != tt.ok || venue != tt.venue {
			t.Errorf("MatchVenue(%q) = %q, %v; want %q, %v", tt.in, venue, ok, tt.venue, tt.ok)
		}
	}
}

func TestMatchVenueRemainder(t *testing.T) {
	_, rest, ok := MatchVenue("東京 第11R")
	if !ok {
		t.Fatal("expected match")
	}
	if rest != " 第11R" {
		t.Errorf("remainder = %q", rest)
	}
}

func TestMatchDistanceSurface(t *testing.T) {
	tests := []struct {
		in      string
		meters  int
		surface models.Surface
		ok      bool
	}{
		{"芝2400m 良", 2400, models.SurfaceTurf, true},
		{"ダート1200m", 1200, models.SurfaceDirt, true},
		{"ダ1800", 1800, models.SurfaceDirt, true},
		{"1600m芝", 1600, models.SurfaceTurf, true},
		{"芝コース", 0, "", false},
		{"2400m", 0, "", false},
	}
	for _, tt := range tests {
		meters, surface, _, ok := MatchDistanceSurface(tt.in)
		if ok != tt.ok || meters != tt.meters || surface != tt.surface {
			t.Errorf("MatchDistanceSurface(%q) = %d, %q, %v; want %d, %q, %v",
				tt.in, meters, surface, ok, tt.meters, tt.surface, tt.ok)
		}
	}
}

func TestMatchTrackCondition(t *testing.T) {
	tests := []struct {
		in   string
		cond models.TrackCondition
		ok   bool
	}{
		{"馬場状態: 稍重", models.ConditionGood, true},
		{"馬場：不良", models.ConditionSoft, true},
		{"芝2400m 良 2024年", models.ConditionFirm, true},
		{"芝1600m 重 晴", models.ConditionYielding, true},
		// 重賞 is a race category, not a going.
		{"重賞レース", "", false},
		{"晴れ", "", false},
	}
	for _, tt := range tests {
		cond, _, ok := MatchTrackCondition(tt.in)
		if ok != tt.ok || cond != tt.cond {
			t.Errorf("MatchTrackCondition(%q) = %q, %v; want %q, %v", tt.in, cond, ok, tt.cond, tt.ok)
		}
	}
}

// The labeled pattern must outrank the bare token: a block that carries both
// an explicit 馬場 label and loose tokens resolves to the labeled value.
func TestMatchTrackConditionOrder(t *testing.T) {
	cond, _, ok := MatchTrackCondition("良 馬場状態: 不良")
	if !ok || cond != models.ConditionSoft {
		t.Errorf("labeled pattern should win, got %q, %v", cond, ok)
	}
}

func TestMatchRaceClass(t *testing.T) {
	tests := []struct {
		in    string
		class models.RaceClass
		ok    bool
	}{
		{"日本ダービー(G1)", models.ClassG1, true},
		{"（GⅡ）", models.ClassG2, true},
		{"G3ハンデ戦", models.ClassG3, true},
		{"リステッド競走", models.ClassListed, true},
		{"オープン特別", models.ClassOpen, true},
		{"3勝クラス", models.ClassThree, true},
		{"1勝クラス", models.ClassOne, true},
		{"未勝利戦", models.ClassMaiden, true},
		{"新馬戦", models.ClassMaiden, true},
		{"ハンデ戦", "", false},
	}
	for _, tt := range tests {
		class, _, ok := MatchRaceClass(tt.in)
		if ok != tt.ok || class != tt.class {
			t.Errorf("MatchRaceClass(%q) = %q, %v; want %q, %v", tt.in, class, ok, tt.class, tt.ok)
		}
	}
}

// Parenthesized grades outrank bare ones so a title like "G1馬の集う(G2)"
// resolves to the parenthesized designation.
func TestMatchRaceClassOrder(t *testing.T) {
	class, _, ok := MatchRaceClass("G1馬の集う(G2)")
	if !ok || class != models.ClassG2 {
		t.Errorf("parenthesized grade should win, got %q, %v", class, ok)
	}
}

func TestMatchGenderAgeCoat(t *testing.T) {
	tests := []struct {
		in     string
		gender models.Gender
		age    int
		coat   string
		ok     bool
	}{
		{"牡3鹿毛", models.GenderMale, 3, "鹿毛", true},
		{"牝4黒鹿毛", models.GenderFemale, 4, "黒鹿毛", true},
		{"セ6芦毛", models.GenderGelding, 6, "芦毛", true},
		{"牡5", models.GenderMale, 5, "", true},
		{"3歳馬", "", 0, "", false},
	}
	for _, tt := range tests {
		gender, age, coat, _, ok := MatchGenderAgeCoat(tt.in)
		if ok != tt.ok || gender != tt.gender || age != tt.age || coat != tt.coat {
			t.Errorf("MatchGenderAgeCoat(%q) = %q, %d, %q, %v; want %q, %d, %q, %v",
				tt.in, gender, age, coat, ok, tt.gender, tt.age, tt.coat, tt.ok)
		}
	}
}

// 黒鹿毛 must not be consumed as 鹿毛 with a stray 黒.
func TestCoatTokenOrder(t *testing.T) {
	gender, age, coat, _, ok := MatchGenderAgeCoat("牝4黒鹿毛 54.0")
	if !ok || gender != models.GenderFemale || age != 4 || coat != "黒鹿毛" {
		t.Errorf("got %q, %d, %q, %v", gender, age, coat, ok)
	}
}

func TestMatchDate(t *testing.T) {
	tests := []struct {
		in   string
		date time.Time
		ok   bool
	}{
		{"2024年5月26日", time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC), true},
		{"2024/05/26", time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC), true},
		{"2024-12-1", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024年13月40日", time.Time{}, false},
		{"5月26日", time.Time{}, false},
	}
	for _, tt := range tests {
		date, _, ok := MatchDate(tt.in)
		if ok != tt.ok || !date.Equal(tt.date) {
			t.Errorf("MatchDate(%q) = %v, %v; want %v, %v", tt.in, date, ok, tt.date, tt.ok)
		}
	}
}

func TestMatchRaceNumber(t *testing.T) {
	tests := []struct {
		in     string
		number int
		ok     bool
	}{
		{"東京 第11R 日本ダービー", 11, true},
		{"第5レース", 5, true},
		{"10R 特別戦", 10, true},
		{"メインレース", 0, false},
	}
	for _, tt := range tests {
		number, _, ok := MatchRaceNumber(tt.in)
		if ok != tt.ok || number != tt.number {
			t.Errorf("MatchRaceNumber(%q) = %d, %v; want %d, %v", tt.in, number, ok, tt.number, tt.ok)
		}
	}
}

// Pattern tables are an ordered contract: most specific first. These names
// are what the tests above rely on; reordering them is a behavior change.
func TestPatternTableOrder(t *testing.T) {
	tables := map[string][]Pattern{
		"venue":     venuePatterns,
		"distance":  distanceSurfacePatterns,
		"condition": conditionPatterns,
		"class":     classPatterns,
		"genderAge": genderAgeCoatPatterns,
		"date":      datePatterns,
		"raceNum":   raceNumberPatterns,
	}
	wantFirst := map[string]string{
		"venue":     "venue_with_suffix",
		"distance":  "surface_then_meters",
		"condition": "condition_labeled",
		"class":     "grade_parenthesized",
		"genderAge": "gender_age_coat",
		"date":      "date_kanji",
		"raceNum":   "marker_kanji",
	}
	for name, table := range tables {
		if len(table) == 0 {
			t.Fatalf("%s table is empty", name)
		}
		if table[0].Name != wantFirst[name] {
			t.Errorf("%s: first pattern = %s, want %s", name, table[0].Name, wantFirst[name])
		}
	}
}
