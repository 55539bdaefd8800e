package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/estimator/internal/cli"
	"github.com/alexanderramin/estimator/internal/config"
	"github.com/alexanderramin/estimator/internal/db"
	"github.com/alexanderramin/estimator/internal/discovery"
	"github.com/alexanderramin/estimator/internal/host"
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/alexanderramin/estimator/internal/notify"
	"github.com/alexanderramin/estimator/internal/projectfile"
	"github.com/alexanderramin/estimator/internal/repository"
	"github.com/alexanderramin/estimator/internal/service"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Global flags change how everything below is built, so read them first.
	flags, err := cli.ParseGlobalFlags(os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags.Apply(&cfg)

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// The TUI owns the terminal; log to stderr only for plain commands.
	if err := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Dir:    cfg.LogDir(),
		Stderr: !interactive,
	}); err != nil {
		return err
	}
	defer logging.Close()
	log := logging.NewLogger("main")

	// The change log is wired through the locator, not by injection, so it
	// starts before the store exists.
	var locator discovery.Locator
	var changelog *service.ChangeLog
	attached := discovery.AttachAsync(ctx, &locator, discovery.Options{
		Component: "changelog",
		Logger:    logging.NewLogger("discovery"),
	}, func(st *store.Store) {
		changelog = service.NewChangeLog(st, logging.NewLogger("changelog"))
	})

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	recent := repository.NewSQLiteRecentProjectRepo(database, db.NewSQLiteUnitOfWork(database), cfg.MaxRecent)

	files, err := projectfile.Open(cfg.ProjectsDir, logging.NewLogger("projectfile"))
	if err != nil {
		return err
	}

	st := store.New(
		store.WithLimits(cfg.StoreLimits()),
		store.WithLogger(logging.NewLogger("store")),
		store.WithTransformVerification(cfg.VerifyTransforms),
	)
	locator.Publish(st)

	toasts := cli.NewToastBridge(os.Stderr)
	center := notify.NewCenter(notify.NewStoreSink(st), toasts,
		notify.WithDefaultDuration(cfg.NotificationDuration),
		notify.WithLogger(logging.NewLogger("notify")),
	)
	defer center.Close()

	observer := service.NewLogUseCaseObserver(logging.NewLogger("usecase"))
	projects := service.NewProjectService(st, files, recent, center, logging.NewLogger("projects"), observer)
	features := service.NewFeatureService(st, observer)

	nav := service.NewNavigator(st)
	defer nav.Close()
	phases := service.NewPhaseCalculator(st, cfg.DailyRate, logging.NewLogger("phases"))
	defer phases.Close()
	if cfg.AutosaveInterval > 0 {
		autosave := service.NewAutoSaver(st, projects, cfg.AutosaveInterval, logging.NewLogger("autosave"))
		defer autosave.Close()
	}

	app := &cli.App{
		Config:      cfg,
		Flags:       flags,
		Store:       st,
		Projects:    projects,
		Features:    features,
		Navigation:  nav,
		Notices:     center,
		Toasts:      toasts,
		Host:        host.NewShell(),
		Interactive: interactive,
	}

	log.WithField("projects_dir", cfg.ProjectsDir).Debug("starting")
	err = cli.NewRootCmd(app).ExecuteContext(ctx)

	stop()
	if <-attached == discovery.Attached && changelog != nil {
		changelog.Close()
	}
	return err
}
