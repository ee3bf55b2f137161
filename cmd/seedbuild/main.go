// seedbuild reads the source competitions CSV, normalizes it into canonical
// (competition, variant) records, and writes every build artifact: the seed
// SQL file, the preview JSON cache, the SQLite store and the build report.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/seedworks/compseed/internal/cache"
	"github.com/seedworks/compseed/internal/config"
	"github.com/seedworks/compseed/internal/core"
	"github.com/seedworks/compseed/internal/csvio"
	"github.com/seedworks/compseed/internal/report"
	"github.com/seedworks/compseed/internal/store"
)

var (
	cfgPath  = flag.String("config", "config/config.toml", "TOML config path")
	input    = flag.String("input", "", "Source CSV path (overrides config)")
	pipeline = flag.String("pipeline", "", "Pipeline mode: variant or deadline (overrides config)")
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("Could not load %s (%v), using defaults", *cfgPath, err)
		cfg = config.Default()
	}

	if *input != "" {
		cfg.Build.SourceCSV = *input
	}
	if *pipeline != "" {
		cfg.Build.Pipeline = *pipeline
	}
	if path := os.Getenv("SEED_SOURCE_CSV"); path != "" && *input == "" {
		cfg.Build.SourceCSV = path
	}

	mode := core.Mode(cfg.Build.Pipeline)
	if mode != core.ModeVariant && mode != core.ModeDeadline {
		log.Fatalf("Unknown pipeline mode %q", cfg.Build.Pipeline)
	}

	rows, err := csvio.ReadFile(cfg.Build.SourceCSV, cfg.Columns)
	if err != nil {
		log.Fatalf("Failed to read source: %v", err)
	}

	normalizer := core.NewNormalizer(mode, cfg.Build.BaseYear)
	result, err := normalizer.Build(rows)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	if err := store.WriteSeedSQLFile(cfg.Build.OutSQL, result.Records); err != nil {
		log.Fatalf("Failed to write seed SQL: %v", err)
	}
	if err := cache.Write(cfg.Build.OutJSON, result.Records); err != nil {
		log.Fatalf("Failed to write preview JSON: %v", err)
	}

	inserted, err := store.Load(cfg.Build.SQLitePath, result.Records)
	if err != nil {
		log.Fatalf("Failed to load store: %v", err)
	}

	rep := report.New(cfg.Build.SourceCSV, cfg.Build.Pipeline)
	if err := rep.WriteFile(cfg.Build.OutReport, result); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.Printf("rows=%d records=%d inserted=%d fallbacks=%d skips=%d collisions=%d",
		len(rows), len(result.Records), inserted,
		len(result.Fallbacks), len(result.Skips), len(result.Collisions))
	log.Printf("wrote: %s", cfg.Build.OutSQL)
	log.Printf("wrote: %s", cfg.Build.OutJSON)
	log.Printf("wrote: %s", cfg.Build.OutReport)
}
