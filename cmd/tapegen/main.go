package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/config"
	"github.com/wealthpath/loantape/internal/logger"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/internal/service"
)

func main() {
	cfg := config.Load()

	// Flags default to the environment configuration
	out := flag.String("out", cfg.OutputDir, "Directory the tapes are written to")
	seed := flag.Int64("seed", cfg.GeneratorSeed, "Seed for a reproducible batch (0 = time seeded)")
	delay := flag.Duration("delay", cfg.DownloadDelay, "Pause between saved files")
	institutions := flag.Int("institutions", cfg.InstitutionsPerProfile, "Institutions per profile")
	catalogPath := flag.String("catalog", cfg.CatalogPath, "YAML profile catalog (default: built-in)")
	workers := flag.Int("workers", cfg.GenerationWorkers, "Tapes assembled concurrently")
	timeout := flag.Duration("timeout", cfg.GenerationTimeout, "Generation timeout")
	flag.Parse()

	log := logger.New(cfg.Env, os.Stderr)

	profiles, err := catalog.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.NewBatchService(profiles, catalog.NewGeographyCatalog(), service.BatchConfig{
		InstitutionsPerProfile: *institutions,
		Workers:                *workers,
		Seed:                   *seed,
		Retry:                  service.DefaultRetryConfig(),
	}, log)

	fmt.Printf("Generating %d tapes for %d profiles...\n", *institutions*profiles.Len(), profiles.Len())
	startTime := time.Now()

	genCtx, cancel := context.WithTimeout(ctx, *timeout)
	batch, err := svc.GenerateAll(genCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d tapes, %d loans in %.1fs (seed %d)\n",
		batch.FileCount(), batch.RecordCount(), time.Since(startTime).Seconds(), batch.Seed)
	fmt.Println()

	sink := service.SinkFunc(func(ctx context.Context, f model.GeneratedFile) error {
		if err := (service.DirSink{Dir: *out}).Save(ctx, f); err != nil {
			return err
		}
		fmt.Printf("  saved %s (%d bytes)\n", f.Filename, f.Size())
		return nil
	})

	saved, err := svc.SaveAll(ctx, batch, sink, *delay)
	if err != nil {
		log.Error("Save interrupted", slog.Int("saved", saved), slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Wrote %d files to %s\n", saved, *out)
}
