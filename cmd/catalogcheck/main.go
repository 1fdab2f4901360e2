// Package main provides a tool that validates catalog configuration.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/osa030/19tube/internal/app/catalog"
	"github.com/osa030/19tube/internal/infra/config"
	"github.com/osa030/19tube/internal/infra/logger"
)

var (
	app         = kingpin.New("19tube-catalogcheck", "Validate 19tube catalog sources")
	configPath  = app.Flag("config", "Path to config file").String()
	catalogPath = app.Flag("catalog", "Catalog file used when no config file is given").Default("videos.txt").String()
	verbose     = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default(*catalogPath)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	chain, err := catalog.NewProviderChainFromConfig(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	failed := false
	fmt.Println("Catalog sources:")
	for _, r := range chain.Check(ctx) {
		if r.Err != nil {
			failed = true
			fmt.Printf("  %-20s %-8s FAILED: %v\n", r.DisplayName, r.Type, r.Err)
			continue
		}
		fmt.Printf("  %-20s %-8s %d videos\n", r.DisplayName, r.Type, r.Count)
	}

	// The merged catalog must also be valid (no empty result)
	cat, err := catalog.Load(ctx, chain)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Merged catalog: %d videos\n", cat.Len())

	if failed {
		os.Exit(1)
	}
}
