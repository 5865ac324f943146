package models

import (
	"testing"
	"time"
)

func TestCanonicalRaceID(t *testing.T) {
	d := time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		venue      string
		date       time.Time
		raceNumber int
		expected   string
	}{
		{"plain", "東京", d, 11, "東京|2024-05-26|11"},
		{"whitespace trimmed", "  東京  ", d, 11, "東京|2024-05-26|11"},
		{"inner whitespace collapsed", "東京 競馬場", d, 11, "東京 競馬場|2024-05-26|11"},
		{"zero date", "中山", time.Time{}, 9, "中山|unknown-date|9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalRaceID(tt.venue, tt.date, tt.raceNumber)
			if got != tt.expected {
				t.Errorf("CanonicalRaceID(%q, %v, %d) = %q, want %q", tt.venue, tt.date, tt.raceNumber, got, tt.expected)
			}
		})
	}
}

func TestCanonicalRaceIDStableAcrossTimezones(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	// 2024-05-26 00:00 JST is 2024-05-25 15:00 UTC; the ID uses the UTC day.
	local := time.Date(2024, 5, 26, 0, 0, 0, 0, jst)
	utc := local.UTC()

	id1 := CanonicalRaceID("京都", local, 11)
	id2 := CanonicalRaceID("京都", utc, 11)
	if id1 != id2 {
		t.Errorf("IDs differ for the same instant: %s vs %s", id1, id2)
	}
}
