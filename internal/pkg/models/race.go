package models

import (
	"strconv"
	"strings"
	"time"
)

// Surface is the racing surface of a course.
type Surface string

const (
	SurfaceTurf Surface = "turf"
	SurfaceDirt Surface = "dirt"
)

// TrackCondition is the official going of the track.
type TrackCondition string

const (
	ConditionFirm     TrackCondition = "firm"     // 良
	ConditionGood     TrackCondition = "good"     // 稍重
	ConditionYielding TrackCondition = "yielding" // 重
	ConditionSoft     TrackCondition = "soft"     // 不良
)

// RaceClass is the class tier of a race.
type RaceClass string

const (
	ClassG1     RaceClass = "g1"
	ClassG2     RaceClass = "g2"
	ClassG3     RaceClass = "g3"
	ClassListed RaceClass = "listed"
	ClassOpen   RaceClass = "open"
	ClassThree  RaceClass = "class3" // 3勝クラス
	ClassTwo    RaceClass = "class2" // 2勝クラス
	ClassOne    RaceClass = "class1" // 1勝クラス
	ClassMaiden RaceClass = "maiden" // 未勝利
)

// RaceInfo is the structured form of one race-info header block.
// Immutable after extraction.
type RaceInfo struct {
	Venue          string         `json:"venue"`
	RaceNumber     int            `json:"race_number"`
	Title          string         `json:"title"`
	DistanceMeters int            `json:"distance_meters"`
	Surface        Surface        `json:"surface"`
	Condition      TrackCondition `json:"condition"`
	RaceClass      RaceClass      `json:"race_class"`
	Date           time.Time      `json:"date"`
}

// CanonicalRaceID builds a stable identifier for one race day slot.
// Format: venue|date|raceNumber (venue stays in its source spelling — JRA
// venue names are a closed set, no normalization beyond whitespace needed).
func CanonicalRaceID(venue string, date time.Time, raceNumber int) string {
	v := strings.Join(strings.Fields(strings.TrimSpace(venue)), " ")
	d := "unknown-date"
	if !date.IsZero() {
		d = date.UTC().Format("2006-01-02")
	}
	return v + "|" + d + "|" + strconv.Itoa(raceNumber)
}
