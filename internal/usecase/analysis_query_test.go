package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ChainPulse/internal/domain/models"
)

type fakeStore struct {
	signals  []models.Signal
	gotLimit int
	gotMin   float64
}

func (f *fakeStore) Init(context.Context) error                            { return nil }
func (f *fakeStore) StoreResult(context.Context, *models.AnalysisResult) error { return nil }
func (f *fakeStore) StoreAdvanced(context.Context, *models.AdvancedMetrics) error {
	return nil
}
func (f *fakeStore) QuerySignals(_ context.Context, _ string, _, _ time.Time, minConfidence float64, limit int) ([]models.Signal, error) {
	f.gotLimit = limit
	f.gotMin = minConfidence
	return f.signals, nil
}
func (f *fakeStore) Health(context.Context) error { return nil }
func (f *fakeStore) Close() error                 { return nil }

type fakeCache map[string][]byte

func (f fakeCache) GetBytes(key string) ([]byte, bool, error) {
	b, ok := f[key]
	return b, ok, nil
}
func (f fakeCache) SetBytes(key string, value []byte, _ time.Duration) error {
	f[key] = value
	return nil
}

func TestGetSignalsValidation(t *testing.T) {
	uc := NewAnalysisQueryUseCase(&fakeStore{}, fakeCache{})
	ctx := context.Background()
	now := time.Now()

	_, err := uc.GetSignals(ctx, GetSignalsParams{From: now.Add(-time.Hour), To: now})
	require.Error(t, err) // missing symbol

	_, err = uc.GetSignals(ctx, GetSignalsParams{Symbol: "NIFTY", From: now, To: now.Add(-time.Hour)})
	require.Error(t, err) // inverted range
}

func TestGetSignalsLimitClamp(t *testing.T) {
	store := &fakeStore{signals: []models.Signal{{Pattern: models.PatternIVCrush}}}
	uc := NewAnalysisQueryUseCase(store, fakeCache{})
	ctx := context.Background()
	now := time.Now()

	res, err := uc.GetSignals(ctx, GetSignalsParams{Symbol: "NIFTY", From: now.Add(-time.Hour), To: now})
	require.NoError(t, err)
	require.Equal(t, 1000, store.gotLimit) // default
	require.Equal(t, 1, res.Count)

	_, err = uc.GetSignals(ctx, GetSignalsParams{Symbol: "NIFTY", From: now.Add(-time.Hour), To: now, Limit: 99999})
	require.NoError(t, err)
	require.Equal(t, 10000, store.gotLimit) // cap
}

func TestLatestResultRoundtrip(t *testing.T) {
	cache := fakeCache{}
	uc := NewAnalysisQueryUseCase(&fakeStore{}, cache)
	ctx := context.Background()

	got, err := uc.LatestResult(ctx, "NIFTY")
	require.NoError(t, err)
	require.Nil(t, got) // nothing cached yet

	want := &models.AnalysisResult{
		Symbol:    "NIFTY",
		Timestamp: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		Summary:   models.SignalSummary{Bias: models.Bullish, Total: 2},
	}
	b, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, cache.SetBytes(LatestResultKey("NIFTY"), b, time.Minute))

	got, err = uc.LatestResult(ctx, "NIFTY")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLatestAdvancedRoundtrip(t *testing.T) {
	cache := fakeCache{}
	uc := NewAnalysisQueryUseCase(&fakeStore{}, cache)
	ctx := context.Background()

	want := &models.AdvancedMetrics{
		Symbol:    "BANKNIFTY",
		Timestamp: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		MaxPain:   48500,
	}
	b, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, cache.SetBytes(LatestAdvancedKey("BANKNIFTY"), b, time.Minute))

	got, err := uc.LatestAdvanced(ctx, "BANKNIFTY")
	require.NoError(t, err)
	require.Equal(t, want, got)
}
