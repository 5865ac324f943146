package models

// OddsRecord is one horse's win/place odds extracted from an odds block.
//
// When a horse appears in only one of the two sections, the missing side is
// approximated from the known side and Approximated is set. Approximated
// values may fall outside the usual >= 1.0 range and are exempt from
// cross-record validation.
type OddsRecord struct {
	HorseNumber  int     `json:"horse_number"`
	WinOdds      float64 `json:"win_odds"`
	PlaceOddsMin float64 `json:"place_odds_min"`
	PlaceOddsMax float64 `json:"place_odds_max"`
	Approximated bool    `json:"approximated,omitempty"`
}
