package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/models"
)

// Ensure SQLiteStorage implements RaceStorage
var _ RaceStorage = (*SQLiteStorage)(nil)

// SQLiteStorage is the local embedded database for parsed races.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (creating if needed) the SQLite database at the
// configured path.
func NewSQLiteStorage(cfg *config.StorageConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("SQLite race storage initialized", "path", cfg.Path)
	return s, nil
}

func (s *SQLiteStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS races (
		id TEXT PRIMARY KEY,
		venue TEXT NOT NULL,
		race_number INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		distance_meters INTEGER NOT NULL,
		surface TEXT NOT NULL,
		condition TEXT NOT NULL,
		race_class TEXT NOT NULL,
		race_date TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS horses (
		race_id TEXT NOT NULL REFERENCES races(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		number INTEGER NOT NULL,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		coat_color TEXT NOT NULL DEFAULT '',
		weight_kg REAL NOT NULL,
		jockey_name TEXT NOT NULL,
		trainer_name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (race_id, position)
	);

	CREATE TABLE IF NOT EXISTS odds (
		race_id TEXT NOT NULL REFERENCES races(id) ON DELETE CASCADE,
		horse_number INTEGER NOT NULL,
		win_odds REAL NOT NULL,
		place_odds_min REAL NOT NULL,
		place_odds_max REAL NOT NULL,
		approximated INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (race_id, horse_number)
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// SaveRace stores one parsed race, replacing any previous version with the
// same canonical ID.
func (s *SQLiteStorage) SaveRace(ctx context.Context, race *StoredRace) error {
	if race == nil {
		return fmt.Errorf("race cannot be nil")
	}
	if race.ID == "" {
		return fmt.Errorf("race ID cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM odds WHERE race_id = ?`,
		`DELETE FROM horses WHERE race_id = ?`,
		`DELETE FROM races WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, race.ID); err != nil {
			return fmt.Errorf("failed to clear previous race: %w", err)
		}
	}

	createdAt := race.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	raceDate := ""
	if !race.Info.Date.IsZero() {
		raceDate = race.Info.Date.UTC().Format("2006-01-02")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO races (id, venue, race_number, title, distance_meters, surface, condition, race_class, race_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		race.ID, race.Info.Venue, race.Info.RaceNumber, race.Info.Title,
		race.Info.DistanceMeters, string(race.Info.Surface), string(race.Info.Condition),
		string(race.Info.RaceClass), raceDate, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert race: %w", err)
	}

	for i, h := range race.Horses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO horses (race_id, position, number, name, age, gender, coat_color, weight_kg, jockey_name, trainer_name)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			race.ID, i, h.Number, h.Name, h.Age, string(h.Gender), h.CoatColor, h.WeightKg, h.JockeyName, h.TrainerName)
		if err != nil {
			return fmt.Errorf("failed to insert horse %d: %w", h.Number, err)
		}
	}

	for _, o := range race.Odds {
		approx := 0
		if o.Approximated {
			approx = 1
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO odds (race_id, horse_number, win_odds, place_odds_min, place_odds_max, approximated)
			VALUES (?, ?, ?, ?, ?, ?)`,
			race.ID, o.HorseNumber, o.WinOdds, o.PlaceOddsMin, o.PlaceOddsMax, approx)
		if err != nil {
			return fmt.Errorf("failed to insert odds for horse %d: %w", o.HorseNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit race: %w", err)
	}
	return nil
}

// GetRace loads one race with its roster and odds.
func (s *SQLiteStorage) GetRace(ctx context.Context, id string) (*StoredRace, error) {
	race := &StoredRace{ID: id}

	var surface, condition, class, raceDate string
	err := s.db.QueryRowContext(ctx, `
		SELECT venue, race_number, title, distance_meters, surface, condition, race_class, race_date, created_at
		FROM races WHERE id = ?`, id).Scan(
		&race.Info.Venue, &race.Info.RaceNumber, &race.Info.Title, &race.Info.DistanceMeters,
		&surface, &condition, &class, &raceDate, &race.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("race %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load race: %w", err)
	}
	race.Info.Surface = models.Surface(surface)
	race.Info.Condition = models.TrackCondition(condition)
	race.Info.RaceClass = models.RaceClass(class)
	if raceDate != "" {
		race.Info.Date, err = time.ParseInLocation("2006-01-02", raceDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored race date: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number, name, age, gender, coat_color, weight_kg, jockey_name, trainer_name
		FROM horses WHERE race_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load horses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h models.HorseRecord
		var gender string
		if err := rows.Scan(&h.Number, &h.Name, &h.Age, &gender, &h.CoatColor, &h.WeightKg, &h.JockeyName, &h.TrainerName); err != nil {
			return nil, fmt.Errorf("failed to scan horse: %w", err)
		}
		h.Gender = models.Gender(gender)
		race.Horses = append(race.Horses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate horses: %w", err)
	}

	oddsRows, err := s.db.QueryContext(ctx, `
		SELECT horse_number, win_odds, place_odds_min, place_odds_max, approximated
		FROM odds WHERE race_id = ? ORDER BY horse_number`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load odds: %w", err)
	}
	defer oddsRows.Close()
	for oddsRows.Next() {
		var o models.OddsRecord
		var approx int
		if err := oddsRows.Scan(&o.HorseNumber, &o.WinOdds, &o.PlaceOddsMin, &o.PlaceOddsMax, &approx); err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		o.Approximated = approx != 0
		race.Odds = append(race.Odds, o)
	}
	if err := oddsRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate odds: %w", err)
	}

	return race, nil
}

// ListRaceIDs returns all stored race IDs, newest first.
func (s *SQLiteStorage) ListRaceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM races ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan race id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
