// parse-race reads pasted race-info, roster and odds text blocks from
// files, runs the extraction engine, and prints the combined diagnostics
// report. With -save, a fully successful parse is stored in the local
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/keibalab/keibanote/internal/parser/odds"
	"github.com/keibalab/keibanote/internal/parser/raceinfo"
	"github.com/keibalab/keibanote/internal/parser/roster"
	pkgconfig "github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/logging"
	"github.com/keibalab/keibanote/internal/pkg/models"
	"github.com/keibalab/keibanote/internal/pkg/storage"
	"github.com/keibalab/keibanote/internal/pkg/validation"
	"github.com/keibalab/keibanote/internal/report"
)

const defaultConfigPath = "configs/example.yaml"

type cliConfig struct {
	configPath string
	raceFile   string
	rosterFile string
	oddsFile   string
	format     string
	save       bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("parse-race failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() cliConfig {
	var cfg cliConfig
	flag.StringVar(&cfg.configPath, "config", defaultConfigPath, "Path to config file")
	flag.StringVar(&cfg.raceFile, "race", "", "File with the pasted race-info block")
	flag.StringVar(&cfg.rosterFile, "roster", "", "File with the pasted roster block")
	flag.StringVar(&cfg.oddsFile, "odds", "", "File with the pasted odds block")
	flag.StringVar(&cfg.format, "format", "text", "Report format: text or json")
	flag.BoolVar(&cfg.save, "save", false, "Store a successful parse in the local database")
	flag.Parse()
	return cfg
}

func run() error {
	cli := parseFlags()
	if cli.raceFile == "" && cli.rosterFile == "" && cli.oddsFile == "" {
		return fmt.Errorf("at least one of -race, -roster, -odds is required")
	}

	appConfig, err := pkgconfig.Load(cli.configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "path", cli.configPath, "error", err)
		def := pkgconfig.Default()
		appConfig = &def
	}
	logging.Setup(appConfig.Logging, "parse-race")
	parserCfg := appConfig.Parser

	var results []models.ExtractionResult
	var raceRes raceinfo.Result
	var rosterRes roster.Result
	var oddsRes odds.Result

	if cli.raceFile != "" {
		text, err := os.ReadFile(cli.raceFile)
		if err != nil {
			return fmt.Errorf("failed to read race-info block: %w", err)
		}
		raceRes = raceinfo.Extract(string(text), parserCfg)
		results = append(results, raceRes.ExtractionResult)
	}
	if cli.rosterFile != "" {
		text, err := os.ReadFile(cli.rosterFile)
		if err != nil {
			return fmt.Errorf("failed to read roster block: %w", err)
		}
		rosterRes = roster.Extract(string(text), parserCfg)
		results = append(results, rosterRes.ExtractionResult)
	}
	if cli.oddsFile != "" {
		text, err := os.ReadFile(cli.oddsFile)
		if err != nil {
			return fmt.Errorf("failed to read odds block: %w", err)
		}
		oddsRes = odds.Extract(string(text), parserCfg)
		results = append(results, oddsRes.ExtractionResult)
	}

	valRes := validation.Validate(rosterRes.Horses, oddsRes.Odds)
	results = append(results, valRes)

	rep := report.Generate(results)
	switch cli.format {
	case "json":
		data, err := report.RenderJSON(rep)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Print(report.RenderText(rep))
	}

	if !cli.save {
		return nil
	}
	if rep.TotalErrors > 0 {
		return fmt.Errorf("refusing to save: report has %d errors", rep.TotalErrors)
	}
	if raceRes.Info == nil {
		return fmt.Errorf("refusing to save: no race info extracted")
	}

	store, err := storage.NewSQLiteStorage(&appConfig.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	race := &storage.StoredRace{
		ID:        models.CanonicalRaceID(raceRes.Info.Venue, raceRes.Info.Date, raceRes.Info.RaceNumber),
		Info:      *raceRes.Info,
		Horses:    rosterRes.Horses,
		Odds:      oddsRes.Odds,
		CreatedAt: time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.SaveRace(ctx, race); err != nil {
		return fmt.Errorf("failed to save race: %w", err)
	}
	slog.Info("Race saved", "race_id", race.ID, "horses", len(race.Horses), "odds", len(race.Odds))
	return nil
}
