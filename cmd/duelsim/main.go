package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/duelcore/internal/ai"
	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/data"
	"github.com/udisondev/duelcore/internal/db"
	"github.com/udisondev/duelcore/internal/model"
	"github.com/udisondev/duelcore/internal/sim"
)

const SimConfigPath = "config/duelsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := SimConfigPath
	if p := os.Getenv("DUELSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading simulation config: %w", err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return fmt.Errorf("applying env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating simulation config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("duelsim starting", "config", cfgPath, "log_level", cfg.LogLevel)

	catalog, err := data.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	var recorder sim.Recorder
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		recorder = sim.NewDBRecorder(db.NewMatchRepository(database.Pool()))
	}

	report, err := sim.NewRunner(cfg, catalog, recorder).Run(ctx)
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	fmt.Printf("batch %s (seed %d): %s %.1f%% / %s %.1f%% / undecided %d, avg %.1f turns in %s\n",
		report.Batch.ID, report.Batch.MasterSeed,
		cfg.PlayerDeck, 100*report.WinRate(model.SidePlayer),
		cfg.EnemyDeck, 100*report.WinRate(model.SideEnemy),
		report.Undecided, report.AvgTurns(), report.Elapsed)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
