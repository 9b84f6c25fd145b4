package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/accredit/internal/assist"
	"github.com/alexanderramin/accredit/internal/cli"
	"github.com/alexanderramin/accredit/internal/config"
	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/db"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/llm"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/alexanderramin/accredit/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	// Open the snapshot database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// The in-memory store starts from the seed and is replaced by the latest
	// snapshot when one exists.
	seed, err := dataset.Seed()
	if err != nil {
		return fmt.Errorf("loading seed data: %w", err)
	}
	store := repository.NewMemoryStore(seed)
	snapshots := repository.NewSQLiteSnapshotRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.Logging.UseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}
	services := service.NewServices(store, snapshots, uow, cfg.Snapshots.Keep, observers...)

	ctx := domain.WithActor(context.Background(), "system")
	if _, err := services.Data.LoadLatest(ctx); err != nil {
		if !domain.IsNotFound(err) {
			return fmt.Errorf("loading latest snapshot: %w", err)
		}
		if _, _, err := services.Data.Persist(ctx, "seed"); err != nil {
			return fmt.Errorf("saving seed snapshot: %w", err)
		}
	}

	app := &cli.App{
		Services: services,
		Actor:    os.Getenv("ACCREDIT_ACTOR"),
		Addr:     cfg.Addr,
		Logger:   logger,
	}

	// Detect interactive terminal for the dashboard, wizard and spinners.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// Wire the assistant only when the LLM is enabled
	if cfg.LLM.Enabled {
		var opts []llm.Option
		if cfg.LLM.LogCalls {
			opts = append(opts, llm.WithObserver(llm.NewLogObserver(logger)))
		}
		app.Assist = assist.NewService(llm.NewOllamaClient(cfg.LLM, opts...))
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
