// scorer ranks the horses of a stored race with the configured scoring
// weights. Without -race it lists the stored race IDs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/keibalab/keibanote/internal/calculator"
	pkgconfig "github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/logging"
	"github.com/keibalab/keibanote/internal/pkg/storage"
)

const defaultConfigPath = "configs/example.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("scorer failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, raceID string
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to config file")
	flag.StringVar(&raceID, "race", "", "Canonical race ID to score (empty lists stored races)")
	flag.Parse()

	appConfig, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(appConfig.Logging, "scorer")

	store, err := storage.NewSQLiteStorage(&appConfig.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if raceID == "" {
		ids, err := store.ListRaceIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("no stored races")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	race, err := store.GetRace(ctx, raceID)
	if err != nil {
		return err
	}

	preds := calculator.NewScorer(appConfig.Scoring).Score(race)
	fmt.Printf("%s %s (%d horses)\n", race.Info.Venue, race.Info.Title, len(race.Horses))
	for _, p := range preds {
		fmt.Printf("%2d. #%-2d %-20s score=%.3f odds=%.1f\n", p.Rank, p.HorseNumber, p.Name, p.Score, p.WinOdds)
	}
	return nil
}
