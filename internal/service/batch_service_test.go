package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/model"
)

// tinyCatalog keeps batch tests fast: each institution gets 0-200 loans before clamping.
func tinyCatalog(t *testing.T) *catalog.ProfileCatalog {
	t.Helper()

	mk := func(key, label string, tier model.RiskTier, scope ...string) model.PortfolioProfile {
		return model.PortfolioProfile{
			Key:                 key,
			SizeBucketLabel:     label,
			SizeBucketRange:     label,
			AvgLoanSize:         decimal.NewFromInt(100000),
			TotalLoanCount:      1000,
			TotalPortfolioValue: decimal.NewFromInt(100000000),
			RiskTier:            tier,
			GeographicScope:     scope,
			ProductMix: []model.ProductWeight{
				{Product: model.ProductPersonal, Weight: 0.5},
				{Product: model.ProductBusiness, Weight: 0.5},
			},
		}
	}

	c, err := catalog.NewProfileCatalog([]model.PortfolioProfile{
		mk("alpha", "Alpha Bucket", model.RiskTierConservative, "Kerala"),
		mk("beta", "Beta Bucket", model.RiskTierAggressive, model.Nationwide),
	})
	require.NoError(t, err)
	return c
}

func testBatchConfig(workers int, seed int64) BatchConfig {
	return BatchConfig{
		InstitutionsPerProfile: 10,
		Workers:                workers,
		Seed:                   seed,
		Retry:                  RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1},
	}
}

func TestBatchService_GenerateAll_DefaultCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("generates the full 40-file batch")
	}
	t.Parallel()

	svc := NewBatchService(catalog.MustDefault(), nil, testBatchConfig(4, 7), nil)
	batch, err := svc.GenerateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"small", "medium", "large", "xlarge"}, batch.ProfileKeys)
	assert.Len(t, batch.Tapes, 4)
	assert.Equal(t, 40, batch.FileCount())

	for _, e := range catalog.MustDefault().List() {
		tapes := batch.Tapes[e.Key]
		require.Len(t, tapes, 10, e.Key)

		share := e.Profile.TotalLoanCount / 10
		total := 0
		for i, tape := range tapes {
			assert.Equal(t, i+1, tape.Institution.Index)
			assert.Equal(t, TapeFilename(tape.Institution), tape.File.Filename)
			assert.GreaterOrEqual(t, len(tape.Records), share-recordCountJitter)
			assert.LessOrEqual(t, len(tape.Records), share+recordCountJitter)
			total += len(tape.Records)
		}
		assert.InDelta(t, e.Profile.TotalLoanCount, total, 10*recordCountJitter)
	}

	files := batch.Files()
	assert.Len(t, files, 4)
	assert.Len(t, files["xlarge"], 10)
}

func TestBatchService_GenerateAll(t *testing.T) {
	t.Parallel()

	svc := NewBatchService(tinyCatalog(t), nil, testBatchConfig(3, 11), nil)
	batch, err := svc.GenerateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(11), batch.Seed)
	assert.Equal(t, []string{"alpha", "beta"}, batch.ProfileKeys)
	assert.Equal(t, 20, batch.FileCount())
	assert.False(t, batch.GeneratedAt.IsZero())

	for _, key := range batch.ProfileKeys {
		for i, tape := range batch.Tapes[key] {
			assert.Equal(t, key, tape.ProfileKey)
			assert.Equal(t, i+1, tape.Institution.Index)
			assert.GreaterOrEqual(t, len(tape.Records), 1, "record counts are clamped to at least one")
			assert.LessOrEqual(t, len(tape.Records), 200)
		}
	}

	summary := svc.Metrics().GetSummary()
	assert.Equal(t, 1, summary.TotalRuns)
	assert.Equal(t, 1, summary.TotalSuccessful)
	assert.Equal(t, 20, summary.LastRunFiles)
	assert.Equal(t, batch.RecordCount(), summary.LastRunRecords)
}

func TestBatchService_Deterministic(t *testing.T) {
	t.Parallel()

	c := tinyCatalog(t)
	serial, err := NewBatchService(c, nil, testBatchConfig(1, 42), nil).GenerateAll(context.Background())
	require.NoError(t, err)
	parallel, err := NewBatchService(c, nil, testBatchConfig(8, 42), nil).GenerateAll(context.Background())
	require.NoError(t, err)

	for _, key := range serial.ProfileKeys {
		require.Len(t, parallel.Tapes[key], len(serial.Tapes[key]))
		for i := range serial.Tapes[key] {
			assert.Equal(t, serial.Tapes[key][i].Records, parallel.Tapes[key][i].Records)
			assert.Equal(t, serial.Tapes[key][i].Institution, parallel.Tapes[key][i].Institution)
		}
	}
}

func TestBatchService_Plan_ClampsCounts(t *testing.T) {
	t.Parallel()

	p := model.PortfolioProfile{
		Key:             "micro",
		SizeBucketLabel: "Micro",
		AvgLoanSize:     decimal.NewFromInt(10000),
		TotalLoanCount:  10,
		RiskTier:        model.RiskTierModerate,
		GeographicScope: []string{"Assam"},
		ProductMix:      []model.ProductWeight{{Product: model.ProductGold, Weight: 1}},
	}
	c, err := catalog.NewProfileCatalog([]model.PortfolioProfile{p})
	require.NoError(t, err)

	svc := NewBatchService(c, nil, testBatchConfig(1, 1), nil)
	batch, err := svc.GenerateAll(context.Background())
	require.NoError(t, err)

	for _, tape := range batch.Tapes["micro"] {
		assert.GreaterOrEqual(t, len(tape.Records), 1)
		assert.LessOrEqual(t, len(tape.Records), 101)
	}
}

func TestBatchService_GenerateAll_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewBatchService(tinyCatalog(t), nil, testBatchConfig(2, 3), nil)
	_, err := svc.GenerateAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, svc.Metrics().GetSummary().TotalFailed)
}

func TestBatchService_Sample(t *testing.T) {
	t.Parallel()

	svc := NewBatchService(tinyCatalog(t), nil, testBatchConfig(1, 0), nil)

	tape, err := svc.Sample("beta", 25, 9)
	require.NoError(t, err)
	assert.Len(t, tape.Records, 25)
	assert.Equal(t, "beta", tape.ProfileKey)

	_, err = svc.Sample("gamma", 25, 9)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestBatchService_SaveAll(t *testing.T) {
	t.Parallel()

	svc := NewBatchService(tinyCatalog(t), nil, testBatchConfig(2, 5), nil)
	batch, err := svc.GenerateAll(context.Background())
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		names []string
	)
	sink := SinkFunc(func(_ context.Context, f model.GeneratedFile) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, f.Filename)
		return nil
	})

	saved, err := svc.SaveAll(context.Background(), batch, sink, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 20, saved)

	var want []string
	for _, key := range batch.ProfileKeys {
		for _, tape := range batch.Tapes[key] {
			want = append(want, tape.File.Filename)
		}
	}
	assert.Equal(t, want, names)
}

func TestBatchService_SaveAll_StopsOnCancel(t *testing.T) {
	t.Parallel()

	svc := NewBatchService(tinyCatalog(t), nil, testBatchConfig(2, 5), nil)
	batch, err := svc.GenerateAll(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := SinkFunc(func(_ context.Context, _ model.GeneratedFile) error {
		cancel()
		return nil
	})

	saved, err := svc.SaveAll(ctx, batch, sink, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, saved)
}

func TestBatchService_SaveAll_Retries(t *testing.T) {
	t.Parallel()

	svc := NewBatchService(tinyCatalog(t), nil, testBatchConfig(2, 5), nil)
	batch, err := svc.GenerateAll(context.Background())
	require.NoError(t, err)

	attempts := 0
	flaky := SinkFunc(func(_ context.Context, _ model.GeneratedFile) error {
		attempts++
		if attempts == 1 {
			return errors.New("disk busy")
		}
		return nil
	})

	saved, err := svc.SaveAll(context.Background(), batch, flaky, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, saved)
	assert.Equal(t, 21, attempts)

	broken := SinkFunc(func(_ context.Context, _ model.GeneratedFile) error {
		return errors.New("read-only filesystem")
	})
	saved, err = svc.SaveAll(context.Background(), batch, broken, 0)
	assert.Error(t, err)
	assert.Zero(t, saved)
}

func TestDirSink(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	sink := DirSink{Dir: dir}

	file := model.GeneratedFile{Filename: "Test_LoanTape_Sample1.xlsx", Data: []byte("payload")}
	require.NoError(t, sink.Save(context.Background(), file))

	data, err := os.ReadFile(filepath.Join(dir, file.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}
