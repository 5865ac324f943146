package storage

import (
	"context"
	"time"

	"github.com/keibalab/keibanote/internal/pkg/models"
)

// StoredRace bundles everything extracted from one paste session: the race
// metadata, the roster and the odds table.
type StoredRace struct {
	ID        string               `json:"id"`
	Info      models.RaceInfo      `json:"info"`
	Horses    []models.HorseRecord `json:"horses"`
	Odds      []models.OddsRecord  `json:"odds"`
	CreatedAt time.Time            `json:"created_at"`
}

// RaceStorage persists parsed races. Implementations must be safe for
// concurrent use.
type RaceStorage interface {
	// SaveRace stores (or replaces) one parsed race.
	SaveRace(ctx context.Context, race *StoredRace) error

	// GetRace loads one race by its canonical ID.
	GetRace(ctx context.Context, id string) (*StoredRace, error)

	// ListRaceIDs returns the IDs of all stored races, newest first.
	ListRaceIDs(ctx context.Context) ([]string, error)

	// Close releases the underlying database.
	Close() error
}
