package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/wealthpath/loantape/internal/apperror"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/datetime"
)

// Lookup errors
var (
	ErrProfileNotFound = apperror.NotFound("profile")
	ErrTapeNotFound    = apperror.NotFound("tape")
)

// TapeSummary describes one generated tape without its payload.
type TapeSummary struct {
	Index       int    `json:"index"`
	Institution string `json:"institution"`
	Filename    string `json:"filename"`
	Records     int    `json:"records"`
	SizeBytes   int    `json:"sizeBytes"`
}

// BatchListing is the catalog of the current batch, per profile key.
type BatchListing struct {
	BatchID     string                   `json:"batchId"`
	Seed        int64                    `json:"seed"`
	GeneratedAt datetime.DateTime        `json:"generatedAt"`
	ProfileKeys []string                 `json:"profileKeys"`
	Tapes       map[string][]TapeSummary `json:"tapes"`
}

// TapeLibrary keeps the latest generated batch in memory.
type TapeLibrary struct {
	batches *BatchService

	mu      sync.RWMutex
	current *model.Batch
}

// NewTapeLibrary creates an empty TapeLibrary; call Refresh to populate it.
func NewTapeLibrary(batches *BatchService) *TapeLibrary {
	return &TapeLibrary{batches: batches}
}

// Refresh generates a new batch and replaces the current one. A zero seed uses
// the configured seed.
func (l *TapeLibrary) Refresh(ctx context.Context, seed int64) (*model.Batch, error) {
	var (
		batch *model.Batch
		err   error
	)
	if seed == 0 {
		batch, err = l.batches.GenerateAll(ctx)
	} else {
		batch, err = l.batches.GenerateWithSeed(ctx, seed)
	}
	if err != nil {
		return nil, fmt.Errorf("refreshing tape library: %w", err)
	}

	l.mu.Lock()
	l.current = batch
	l.mu.Unlock()

	return batch, nil
}

// Current returns the latest batch, or nil if none has been generated.
func (l *TapeLibrary) Current() *model.Batch {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Get returns the index-th (1-based) tape of a profile from the current batch.
func (l *TapeLibrary) Get(profileKey string, index int) (model.GeneratedTape, error) {
	if _, ok := l.batches.Catalog().Get(profileKey); !ok {
		return model.GeneratedTape{}, ErrProfileNotFound
	}

	batch := l.Current()
	if batch == nil {
		return model.GeneratedTape{}, ErrTapeNotFound
	}

	tape, ok := batch.Tape(profileKey, index)
	if !ok {
		return model.GeneratedTape{}, ErrTapeNotFound
	}
	return tape, nil
}

// Listing summarizes the current batch. It returns ErrTapeNotFound before the first refresh.
func (l *TapeLibrary) Listing() (BatchListing, error) {
	batch := l.Current()
	if batch == nil {
		return BatchListing{}, ErrTapeNotFound
	}

	listing := BatchListing{
		BatchID:     batch.ID.String(),
		Seed:        batch.Seed,
		GeneratedAt: batch.GeneratedAt,
		ProfileKeys: batch.ProfileKeys,
		Tapes:       make(map[string][]TapeSummary, len(batch.Tapes)),
	}
	for _, key := range batch.ProfileKeys {
		tapes := batch.Tapes[key]
		summaries := make([]TapeSummary, 0, len(tapes))
		for _, t := range tapes {
			summaries = append(summaries, TapeSummary{
				Index:       t.Institution.Index,
				Institution: t.Institution.Label,
				Filename:    t.File.Filename,
				Records:     len(t.Records),
				SizeBytes:   t.File.Size(),
			})
		}
		listing.Tapes[key] = summaries
	}

	return listing, nil
}

// Status returns the generation metrics summary.
func (l *TapeLibrary) Status() MetricsSummary {
	return l.batches.Metrics().GetSummary()
}
