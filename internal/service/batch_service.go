package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/logger"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/datetime"
	"github.com/wealthpath/loantape/pkg/random"
)

// recordCountJitter bounds the per-institution deviation from the profile's even share.
const recordCountJitter = 100

// BatchConfig holds batch generation settings.
type BatchConfig struct {
	// InstitutionsPerProfile is the number of synthetic institutions per bucket
	InstitutionsPerProfile int
	// Workers bounds how many tapes are assembled concurrently
	Workers int
	// Seed makes runs reproducible; 0 seeds every run from the clock
	Seed int64
	// Retry applies to each file save in SaveAll
	Retry RetryConfig
}

// DefaultBatchConfig returns the default batch configuration
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		InstitutionsPerProfile: 10,
		Workers:                runtime.NumCPU(),
		Retry:                  DefaultRetryConfig(),
	}
}

// FileSink receives generated files one at a time.
type FileSink interface {
	Save(ctx context.Context, file model.GeneratedFile) error
}

// SinkFunc adapts a function to FileSink.
type SinkFunc func(ctx context.Context, file model.GeneratedFile) error

func (f SinkFunc) Save(ctx context.Context, file model.GeneratedFile) error {
	return f(ctx, file)
}

// DirSink writes files into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

func (d DirSink) Save(_ context.Context, file model.GeneratedFile) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(file.Filename))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", file.Filename, err)
	}
	return nil
}

// BatchService produces a full set of loan tapes across every catalog profile.
type BatchService struct {
	profiles *catalog.ProfileCatalog
	geo      *catalog.GeographyCatalog
	config   BatchConfig
	metrics  *MetricsCollector
	logger   *slog.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(profiles *catalog.ProfileCatalog, geo *catalog.GeographyCatalog, cfg BatchConfig, log *slog.Logger) *BatchService {
	if log == nil {
		log = slog.Default()
	}
	if geo == nil {
		geo = catalog.NewGeographyCatalog()
	}
	if cfg.InstitutionsPerProfile <= 0 {
		cfg.InstitutionsPerProfile = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &BatchService{
		profiles: profiles,
		geo:      geo,
		config:   cfg,
		metrics:  NewMetricsCollector(),
		logger:   log,
	}
}

// Catalog returns the profile catalog the service generates from.
func (s *BatchService) Catalog() *catalog.ProfileCatalog {
	return s.profiles
}

// Metrics returns the run metrics collector.
func (s *BatchService) Metrics() *MetricsCollector {
	return s.metrics
}

// job is one institution's unit of work. Its seed and record count are fixed
// before fan-out so results do not depend on scheduling.
type job struct {
	profile model.PortfolioProfile
	inst    model.Institution
	count   int
	seed    int64
}

// GenerateAll builds a batch with the configured seed.
func (s *BatchService) GenerateAll(ctx context.Context) (*model.Batch, error) {
	return s.GenerateWithSeed(ctx, s.config.Seed)
}

// GenerateWithSeed builds a batch: InstitutionsPerProfile tapes for every profile,
// in catalog and institution order. A zero seed is replaced by a clock seed.
func (s *BatchService) GenerateWithSeed(ctx context.Context, seed int64) (*model.Batch, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	batch := &model.Batch{
		ID:          uuid.New(),
		Seed:        seed,
		ProfileKeys: s.profiles.Keys(),
		Tapes:       make(map[string][]model.GeneratedTape, s.profiles.Len()),
	}

	ctx = logger.WithBatchID(ctx, batch.ID.String())
	log := logger.Enrich(ctx, s.logger)
	log.Info("Starting batch generation",
		slog.Int64("seed", seed),
		slog.Int("profiles", s.profiles.Len()),
		slog.Int("institutions_per_profile", s.config.InstitutionsPerProfile),
	)

	jobs := s.plan(random.NewSeeded(seed))
	results := make([]model.GeneratedTape, len(jobs))

	s.metrics.StartRun()
	for _, key := range batch.ProfileKeys {
		s.metrics.StartProfile(key)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			asm := NewTapeAssembler(NewLoanGenerator(s.geo, random.NewSeeded(j.seed)))
			tape, err := asm.Assemble(j.profile, j.inst, j.count)
			if err != nil {
				s.metrics.RecordFailure(j.profile.Key, err)
				return fmt.Errorf("assembling %s: %w", j.inst.Label, err)
			}

			results[i] = tape
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.FinishRun()
		log.Error("Batch generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	for _, tape := range results {
		batch.Tapes[tape.ProfileKey] = append(batch.Tapes[tape.ProfileKey], tape)
	}
	for _, key := range batch.ProfileKeys {
		tapes := batch.Tapes[key]
		records := 0
		for _, t := range tapes {
			records += len(t.Records)
		}
		s.metrics.RecordSuccess(key, len(tapes), records)
	}
	s.metrics.FinishRun()
	batch.GeneratedAt = datetime.Now()

	log.Info("Batch generation completed",
		slog.Int("files", batch.FileCount()),
		slog.Int("records", batch.RecordCount()),
	)

	return batch, nil
}

// plan draws every job's record count and child seed from master in a fixed order.
func (s *BatchService) plan(master random.Source) []job {
	n := s.config.InstitutionsPerProfile
	jobs := make([]job, 0, s.profiles.Len()*n)

	for _, e := range s.profiles.List() {
		share := e.Profile.TotalLoanCount / n
		for i := 1; i <= n; i++ {
			count := max(share+master.Int(-recordCountJitter, recordCountJitter), 1)
			jobs = append(jobs, job{
				profile: e.Profile,
				inst:    NewInstitution(e.Profile, i),
				count:   count,
				seed:    master.Int63(),
			})
		}
	}

	return jobs
}

// Sample assembles a single one-off tape for a profile.
func (s *BatchService) Sample(profileKey string, count int, seed int64) (model.GeneratedTape, error) {
	profile, ok := s.profiles.Get(profileKey)
	if !ok {
		return model.GeneratedTape{}, fmt.Errorf("profile %q: %w", profileKey, ErrProfileNotFound)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	asm := NewTapeAssembler(NewLoanGenerator(s.geo, random.NewSeeded(seed)))
	return asm.Assemble(profile, NewInstitution(profile, 1), count)
}

// SaveAll hands every file of the batch to sink in profile then institution order,
// waiting delay between consecutive files. It stops at the first failed save or
// when ctx is cancelled, returning the number of files saved.
func (s *BatchService) SaveAll(ctx context.Context, batch *model.Batch, sink FileSink, delay time.Duration) (int, error) {
	log := logger.Enrich(logger.WithBatchID(ctx, batch.ID.String()), s.logger)

	var files []model.GeneratedFile
	for _, key := range batch.ProfileKeys {
		for _, t := range batch.Tapes[key] {
			files = append(files, t.File)
		}
	}

	saved := 0
	for i, file := range files {
		select {
		case <-ctx.Done():
			log.Warn("Save cancelled", slog.Int("saved", saved), slog.Int("total", len(files)))
			return saved, ctx.Err()
		default:
		}

		err := WithRetry(ctx, s.config.Retry, log, func() error {
			return sink.Save(ctx, file)
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return saved, err
			}
			return saved, fmt.Errorf("saving %s: %w", file.Filename, err)
		}
		saved++
		log.Debug("Saved tape", slog.String("filename", file.Filename), slog.Int("bytes", file.Size()))

		if delay > 0 && i < len(files)-1 {
			select {
			case <-ctx.Done():
				return saved, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	log.Info("Saved batch", slog.Int("files", saved))
	return saved, nil
}
