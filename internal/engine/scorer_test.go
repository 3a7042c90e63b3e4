package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ChainPulse/internal/domain/models"
)

func TestGradeBuckets(t *testing.T) {
	s, p := grade(85)
	require.Equal(t, models.Strong, s)
	require.Equal(t, models.PriorityHigh, p)

	s, p = grade(80)
	require.Equal(t, models.Strong, s)
	require.Equal(t, models.PriorityHigh, p)

	s, p = grade(79.9)
	require.Equal(t, models.Moderate, s)
	require.Equal(t, models.PriorityMedium, p)

	s, p = grade(60)
	require.Equal(t, models.Moderate, s)
	require.Equal(t, models.PriorityMedium, p)

	s, p = grade(59.9)
	require.Equal(t, models.Weak, s)
	require.Equal(t, models.PriorityLow, p)
}

func TestScoreFiltersLowConfidence(t *testing.T) {
	cfg := testConfig() // min confidence 60
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	raw := []*models.Signal{
		{Pattern: models.PatternIVCrush, Direction: models.Bullish, Confidence: 55},
		{Pattern: models.PatternFirstHour, Direction: models.Bullish, Confidence: 85},
		nil,
	}
	res := NewScorer(cfg).Score("NIFTY", ts, raw, w)

	require.Len(t, res.Signals, 1)
	require.Equal(t, models.PatternFirstHour, res.Signals[0].Pattern)
	require.Equal(t, models.Strong, res.Signals[0].Strength)
	require.Equal(t, models.PriorityHigh, res.Signals[0].Priority)
}

func TestSummarizeBiasMajority(t *testing.T) {
	sum := summarize([]models.Signal{
		{Direction: models.Bullish, Confidence: 70, Strength: models.Moderate},
		{Direction: models.Bullish, Confidence: 90, Strength: models.Strong, Priority: models.PriorityHigh},
		{Direction: models.Bearish, Confidence: 65, Strength: models.Moderate},
	})
	require.Equal(t, models.Bullish, sum.Bias)
	require.Equal(t, 2, sum.Bullish)
	require.Equal(t, 1, sum.Bearish)
	require.Equal(t, 1, sum.Strong)
	require.Equal(t, 1, sum.HighPriority)
	require.InDelta(t, 75.0, sum.AvgConfidence, 1e-9)
}

func TestSummarizeBiasTieIsNeutral(t *testing.T) {
	sum := summarize([]models.Signal{
		{Direction: models.Bullish, Confidence: 70},
		{Direction: models.Bearish, Confidence: 70},
	})
	require.Equal(t, models.Neutral, sum.Bias)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := summarize(nil)
	require.Equal(t, models.Neutral, sum.Bias)
	require.Equal(t, 0, sum.Total)
	require.Equal(t, 0.0, sum.AvgConfidence)
}

func TestMarketStateNeutralBelowFivePoints(t *testing.T) {
	w := NewWindow(testConfig())
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fillWindow(w, 3, ts, 22500, 1000)

	state := marketState(w)
	require.Equal(t, "SIDEWAYS", state.Trend)
	require.Equal(t, "LOW", state.Volatility)
	require.Equal(t, "NORMAL", state.VolumeProfile)
	require.Equal(t, 0.0, state.Support)
	require.Equal(t, 0.0, state.Resistance)
}

func TestMarketStateLevelsAndTrend(t *testing.T) {
	w := NewWindow(testConfig())
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	// steady climb of well over half a percent across the lookback
	for i := 0; i < 10; i++ {
		w.AddPoint(models.MarketDataPoint{
			Timestamp:   ts.Add(time.Duration(i) * time.Minute),
			SpotPrice:   22300 + float64(i)*30,
			TotalVolume: 1000,
			ATMCallIV:   22,
			ATMPutIV:    24,
		})
	}

	state := marketState(w)
	require.Equal(t, "BULLISH", state.Trend)
	require.Equal(t, "HIGH", state.Volatility)
	require.Equal(t, 22500.0, state.Support)
	require.Equal(t, 22600.0, state.Resistance)
	require.Equal(t, 22550.0, state.MaxPain)
}

func TestMarketStateVolumeProfile(t *testing.T) {
	w := NewWindow(testConfig())
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fillWindow(w, 9, ts, 22500, 1000)
	w.AddPoint(models.MarketDataPoint{Timestamp: ts, SpotPrice: 22500, TotalVolume: 9000, ATMCallIV: 12, ATMPutIV: 12})

	state := marketState(w)
	require.Equal(t, "HIGH", state.VolumeProfile)
	require.Equal(t, "LOW", state.Volatility)
}
