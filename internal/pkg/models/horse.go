package models

// Gender of an entrant.
type Gender string

const (
	GenderMale    Gender = "male"    // 牡
	GenderFemale  Gender = "female"  // 牝
	GenderGelding Gender = "gelding" // セ
)

// HorseRecord is one entrant extracted from a roster block.
// Records keep their order of appearance, which is not necessarily
// ascending by number.
type HorseRecord struct {
	Number      int     `json:"number"` // horse number, 1..18
	Name        string  `json:"name"`   // racing (display) name
	Age         int     `json:"age"`
	Gender      Gender  `json:"gender"`
	CoatColor   string  `json:"coat_color,omitempty"`
	WeightKg    float64 `json:"weight_kg"` // assigned (carried) weight
	JockeyName  string  `json:"jockey_name"`
	TrainerName string  `json:"trainer_name,omitempty"`
}
