package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/tweetboard/pkg/board"
	"github.com/umputun/tweetboard/pkg/config"
	"github.com/umputun/tweetboard/pkg/controller"
	"github.com/umputun/tweetboard/pkg/fetcher"
	"github.com/umputun/tweetboard/pkg/repository"
	"github.com/umputun/tweetboard/pkg/settings"
	"github.com/umputun/tweetboard/pkg/timeline"
	"github.com/umputun/tweetboard/server"
)

// Opts with all CLI options, non-empty values override the config file
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address"`
	DB     string `long:"db" env:"DB" description:"database DSN"`
	API    string `long:"api" env:"API" description:"timeline API base URL"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	lgr.Printf("[INFO] starting tweetboard version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Print("[INFO] shutdown complete")
}

// run wires storage, fetcher, board and controller and serves until ctx is done
func run(ctx context.Context, opts Opts) error {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	applyOverrides(cfg, opts)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()
	if err := repos.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	store := settings.New(repos.Setting)
	dashboard := board.New(store)
	upstream := cfg.GetUpstreamConfig()
	client := timeline.NewClient(nil, upstream.UserAgent)
	orchestrator := fetcher.New(client, timeline.NewURLBuilder(upstream.BaseURL), store, dashboard)
	ctrl := controller.New(store, orchestrator, dashboard)
	lgr.Printf("[INFO] timeline API %s", upstream.BaseURL)

	// initial load, the board is ready for API clients before the first page view
	go func() {
		if _, err := ctrl.Refresh(ctx); err != nil {
			lgr.Printf("[WARN] initial load: %v", err)
		}
	}()

	srv := server.New(cfg, server.Deps{
		Settings:   store,
		Board:      dashboard,
		Fetcher:    orchestrator,
		Controller: ctrl,
		DB:         repos,
	}, revision, opts.Debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts Opts) {
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.DB != "" {
		cfg.Database.DSN = opts.DB
	}
	if opts.API != "" {
		cfg.Upstream.BaseURL = opts.API
	}
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
