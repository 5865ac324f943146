// export copies every race from the local SQLite storage into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	pkgconfig "github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/export"
	"github.com/keibalab/keibanote/internal/pkg/logging"
	"github.com/keibalab/keibanote/internal/pkg/storage"
)

const defaultConfigPath = "configs/example.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var timeout time.Duration
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to config file")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall export timeout")
	flag.Parse()

	appConfig, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(appConfig.Logging, "export")

	if appConfig.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is not configured")
	}

	store, err := storage.NewSQLiteStorage(&appConfig.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	exporter, err := export.NewPostgresExporter(&appConfig.Postgres)
	if err != nil {
		return err
	}
	defer exporter.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	exported, err := exporter.ExportAll(ctx, store)
	if err != nil {
		return err
	}
	slog.Info("export finished", "races", exported)
	return nil
}
