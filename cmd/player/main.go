// Package main provides the interactive video player entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/api/console"
	"github.com/osa030/19tube/internal/app/catalog"
	"github.com/osa030/19tube/internal/app/session"
	"github.com/osa030/19tube/internal/infra/config"
	"github.com/osa030/19tube/internal/infra/logger"
)

var (
	app         = kingpin.New("19tube", "19tube in-memory video player")
	configPath  = app.Flag("config", "Path to config file").String()
	catalogPath = app.Flag("catalog", "Catalog file used when no config file is given").Default("videos.txt").String()
	verbose     = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile     = app.Flag("logfile", "Path to log file (default: stderr)").String()

	// list-videos command
	listVideosCmd = app.Command("list-videos", "Print the catalog and exit")
)

func init() {
	// shell command (default) - no need to store the command
	app.Command("shell", "Start the interactive shell (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger from flags; config values are applied once loaded
	if err := logger.Init(loggerConfig(nil)); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := loadConfig()
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}
	if err := logger.Init(loggerConfig(cfg)); err != nil {
		zlog.Fatal().Msgf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg, command == listVideosCmd.FullCommand()); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		os.Exit(1)
	}
}

// loggerConfig merges the config file's log section with command-line flags.
func loggerConfig(cfg *config.Config) logger.Config {
	lc := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	if cfg != nil {
		lc.Output = cfg.Log.Output
		lc.Level = cfg.Log.Level
	}
	// Override with command-line flags if specified
	if *verbose {
		lc.Level = "debug"
	}
	if *logfile != "" {
		lc.Output = *logfile
	}
	return lc
}

func loadConfig() (*config.Config, error) {
	if *configPath == "" {
		zlog.Debug().Msgf("No config file given, reading catalog from %s", *catalogPath)
		return config.Default(*catalogPath)
	}
	zlog.Info().Msgf("Loading config from %s", *configPath)
	return config.Load(*configPath)
}

// run executes the main player logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config, listOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chain, err := catalog.NewProviderChainFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create catalog provider chain")
	}
	cat, err := catalog.Load(ctx, chain)
	if err != nil {
		return err
	}

	engine := session.NewFromConfig(cat, cfg)
	defer engine.Close()

	shell := console.NewShell(engine, os.Stdin, os.Stdout)
	defer shell.Close()

	if listOnly {
		shell.Execute("SHOW_ALL_VIDEOS")
		return nil
	}

	// Scanning stdin blocks, so wait for the shell or a signal
	done := make(chan error, 1)
	go func() {
		done <- shell.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "shell stopped")
		}
	case <-ctx.Done():
		zlog.Info().Msg("Received shutdown signal...")
	}
	return nil
}
