package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

type Config struct {
	Logging  LoggingConfig       `yaml:"logging"`
	Parser   models.ParserConfig `yaml:"parser"`
	Storage  StorageConfig       `yaml:"storage"`
	Postgres PostgresConfig      `yaml:"postgres"`
	Telegram TelegramConfig      `yaml:"telegram"`
	Scoring  ScoringConfig       `yaml:"scoring"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type StorageConfig struct {
	Path string `yaml:"path"` // SQLite database file
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // export target, empty disables export
}

type TelegramConfig struct {
	Token          string  `yaml:"token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids"` // empty allows everyone
	UpdateTimeout  int     `yaml:"update_timeout"`
}

// ScoringConfig holds the weights of the prediction scorer. Weights are
// relative: they are normalized at scoring time.
type ScoringConfig struct {
	OddsWeight   float64 `yaml:"odds_weight"`
	AgeWeight    float64 `yaml:"age_weight"`
	WeightWeight float64 `yaml:"weight_weight"`
}

// Default returns the configuration used when no file or key is present.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Parser:  models.DefaultParserConfig(),
		Storage: StorageConfig{Path: "keibanote.db"},
		Telegram: TelegramConfig{
			UpdateTimeout: 60,
		},
		Scoring: ScoringConfig{
			OddsWeight:   0.6,
			AgeWeight:    0.25,
			WeightWeight: 0.15,
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(configPath string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}
