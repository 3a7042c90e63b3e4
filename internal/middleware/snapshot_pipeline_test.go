package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ChainPulse/internal/domain/models"
)

type countingProc struct {
	calls int
	err   error
}

func (p *countingProc) Process(context.Context, *models.MarketSnapshot) error {
	p.calls++
	return p.err
}

type nopMetrics struct{}

func (nopMetrics) RecordCycle(string)            {}
func (nopMetrics) RecordSignal(string, string, string) {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordSpot(string, float64)    {}
func (nopMetrics) RecordLatency(string, float64) {}

func validSnap() *models.MarketSnapshot {
	return &models.MarketSnapshot{
		Symbol:    "NIFTY",
		SpotPrice: 22500,
		Timestamp: time.Now(),
		Strikes:   []models.StrikeQuote{{Strike: 22500}},
	}
}

func TestValidateSnapshot(t *testing.T) {
	require.Error(t, validateSnapshot(nil))

	snap := validSnap()
	snap.Symbol = ""
	require.Error(t, validateSnapshot(snap))

	snap = validSnap()
	snap.Timestamp = time.Time{}
	require.Error(t, validateSnapshot(snap))

	snap = validSnap()
	snap.SpotPrice = -1
	require.Error(t, validateSnapshot(snap))

	snap = validSnap()
	snap.Strikes = nil
	require.Error(t, validateSnapshot(snap))

	require.NoError(t, validateSnapshot(validSnap()))
}

func TestPipelineForwardsValidSnapshot(t *testing.T) {
	proc := &countingProc{}
	p := NewSnapshotPipeline(proc, nopMetrics{})

	require.NoError(t, p.Process(context.Background(), validSnap()))
	require.Equal(t, 1, proc.calls)
}

func TestPipelineRejectsInvalid(t *testing.T) {
	proc := &countingProc{}
	p := NewSnapshotPipeline(proc, nopMetrics{})

	err := p.Process(context.Background(), &models.MarketSnapshot{})
	require.Error(t, err)
	require.Equal(t, 0, proc.calls)
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	proc := &countingProc{}
	p := NewSnapshotPipeline(proc, nopMetrics{}, WithMaxRPS(1))

	require.NoError(t, p.Process(context.Background(), validSnap()))
	// immediate second snapshot for the same symbol is dropped, not errored
	require.NoError(t, p.Process(context.Background(), validSnap()))
	require.Equal(t, 1, proc.calls)
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &countingProc{err: errors.New("down")}
	p := NewSnapshotPipeline(proc, nopMetrics{}, WithBufferSize(4))

	err := p.Process(context.Background(), validSnap())
	require.Error(t, err)
	require.Equal(t, 1, len(p.bufCh))
}
