package models

// Race-info extraction strategies. See internal/parser/raceinfo.
const (
	StrategyDelimiter = "delimiter" // keyed on explicit markers (class tag, race-number marker)
	StrategyLayout    = "layout"    // legacy: keyed on layout position (line 0 is the title)
)

// ParserConfig controls extraction behavior. It is passed by value into
// every extractor call; extractors never read shared mutable state.
type ParserConfig struct {
	// Strict makes every missing race-info field (soft fields included) an
	// error that aborts extraction. When false, only critical fields abort
	// and soft fields default with a warning.
	Strict bool `yaml:"strict"`
	// SkipInvalidHorses downgrades a failed roster fragment's errors to
	// warnings and omits the fragment instead of failing the whole roster.
	SkipInvalidHorses bool `yaml:"skip_invalid_horses"`
	// DefaultOdds substitutes for win odds when a horse appears only in the
	// place section.
	DefaultOdds float64 `yaml:"default_odds"`
	// MaxHorses is the roster size above which a warning is emitted.
	// Extraction never truncates.
	MaxHorses int `yaml:"max_horses"`
	// RaceInfoStrategy selects the race-info extraction strategy
	// (StrategyDelimiter or StrategyLayout).
	RaceInfoStrategy string `yaml:"race_info_strategy"`
}

// DefaultParserConfig returns the documented defaults.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Strict:            false,
		SkipInvalidHorses: true,
		DefaultOdds:       99.9,
		MaxHorses:         18,
		RaceInfoStrategy:  StrategyDelimiter,
	}
}
