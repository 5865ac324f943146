// Package export copies locally stored races into a PostgreSQL schema for
// longer-term analysis. The SQLite storage stays the source of truth; the
// export is idempotent (upsert per race).
package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/storage"
)

// PostgresExporter writes parsed races to a PostgreSQL database.
type PostgresExporter struct {
	db *sql.DB
}

// NewPostgresExporter connects to the configured export target.
func NewPostgresExporter(cfg *config.PostgresConfig) (*PostgresExporter, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	e := &PostgresExporter{db: db}
	if err := e.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize export schema: %w", err)
	}

	slog.Info("PostgreSQL exporter initialized")
	return e, nil
}

func (e *PostgresExporter) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS races (
		id VARCHAR(200) PRIMARY KEY,
		venue VARCHAR(50) NOT NULL,
		race_number INTEGER NOT NULL,
		title VARCHAR(200) NOT NULL DEFAULT '',
		distance_meters INTEGER NOT NULL,
		surface VARCHAR(20) NOT NULL,
		condition VARCHAR(20) NOT NULL,
		race_class VARCHAR(20) NOT NULL,
		race_date DATE,
		exported_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS horses (
		race_id VARCHAR(200) NOT NULL REFERENCES races(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		number INTEGER NOT NULL,
		name VARCHAR(100) NOT NULL,
		age INTEGER NOT NULL,
		gender VARCHAR(20) NOT NULL,
		coat_color VARCHAR(20) NOT NULL DEFAULT '',
		weight_kg DECIMAL(5, 1) NOT NULL,
		jockey_name VARCHAR(100) NOT NULL,
		trainer_name VARCHAR(100) NOT NULL DEFAULT '',
		PRIMARY KEY (race_id, position)
	);

	CREATE TABLE IF NOT EXISTS odds (
		race_id VARCHAR(200) NOT NULL REFERENCES races(id) ON DELETE CASCADE,
		horse_number INTEGER NOT NULL,
		win_odds DECIMAL(10, 2) NOT NULL,
		place_odds_min DECIMAL(10, 2) NOT NULL,
		place_odds_max DECIMAL(10, 2) NOT NULL,
		approximated BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (race_id, horse_number)
	);

	CREATE INDEX IF NOT EXISTS idx_races_race_date ON races(race_date);
	`
	_, err := e.db.ExecContext(ctx, query)
	return err
}

// ExportRace upserts one race with its roster and odds.
func (e *PostgresExporter) ExportRace(ctx context.Context, race *storage.StoredRace) error {
	if race == nil || race.ID == "" {
		return fmt.Errorf("race with a canonical ID is required")
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raceDate any
	if !race.Info.Date.IsZero() {
		raceDate = race.Info.Date.UTC().Format("2006-01-02")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO races (id, venue, race_number, title, distance_meters, surface, condition, race_class, race_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			venue = EXCLUDED.venue,
			race_number = EXCLUDED.race_number,
			title = EXCLUDED.title,
			distance_meters = EXCLUDED.distance_meters,
			surface = EXCLUDED.surface,
			condition = EXCLUDED.condition,
			race_class = EXCLUDED.race_class,
			race_date = EXCLUDED.race_date,
			exported_at = NOW()`,
		race.ID, race.Info.Venue, race.Info.RaceNumber, race.Info.Title,
		race.Info.DistanceMeters, string(race.Info.Surface), string(race.Info.Condition),
		string(race.Info.RaceClass), raceDate)
	if err != nil {
		return fmt.Errorf("failed to upsert race: %w", err)
	}

	for _, table := range []string{"horses", "odds"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE race_id = $1`, table), race.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, h := range race.Horses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO horses (race_id, position, number, name, age, gender, coat_color, weight_kg, jockey_name, trainer_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			race.ID, i, h.Number, h.Name, h.Age, string(h.Gender), h.CoatColor, h.WeightKg, h.JockeyName, h.TrainerName)
		if err != nil {
			return fmt.Errorf("failed to insert horse %d: %w", h.Number, err)
		}
	}

	for _, o := range race.Odds {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO odds (race_id, horse_number, win_odds, place_odds_min, place_odds_max, approximated)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			race.ID, o.HorseNumber, o.WinOdds, o.PlaceOddsMin, o.PlaceOddsMax, o.Approximated)
		if err != nil {
			return fmt.Errorf("failed to insert odds for horse %d: %w", o.HorseNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

// ExportAll copies every race from the local storage. A failed race is
// logged and skipped so one broken record does not stop the batch.
func (e *PostgresExporter) ExportAll(ctx context.Context, local storage.RaceStorage) (int, error) {
	ids, err := local.ListRaceIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list local races: %w", err)
	}

	exported := 0
	for _, id := range ids {
		race, err := local.GetRace(ctx, id)
		if err != nil {
			slog.Error("Failed to load race for export", "race_id", id, "error", err)
			continue
		}
		if err := e.ExportRace(ctx, race); err != nil {
			slog.Error("Failed to export race", "race_id", id, "error", err)
			continue
		}
		exported++
	}
	slog.Info("Export finished", "exported", exported, "total", len(ids))
	return exported, nil
}

// Close closes the postgres connection.
func (e *PostgresExporter) Close() error {
	return e.db.Close()
}
