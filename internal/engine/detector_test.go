package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ChainPulse/internal/domain/models"
)

// fillWindow seeds a window with n calm points ending just before ts.
func fillWindow(w *Window, n int, ts time.Time, price, volume float64) {
	for i := n; i > 0; i-- {
		w.AddPoint(models.MarketDataPoint{
			Timestamp:   ts.Add(-time.Duration(i) * time.Minute),
			SpotPrice:   price,
			TotalVolume: volume,
			ATMCallOI:   1000,
			ATMPutOI:    1000,
			ATMCallIV:   18,
			ATMPutIV:    18,
			TotalCallOI: 50000,
			TotalPutOI:  50000,
		})
	}
}

func TestWritingImbalanceBearish(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	prev := models.MarketDataPoint{Timestamp: ts.Add(-time.Minute), SpotPrice: 22500, ATMCallOI: 1000, ATMPutOI: 1000}
	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22500, ATMCallOI: 1200, ATMPutOI: 800}
	w.AddPoint(prev)
	w.AddPoint(cur)

	sig := WritingImbalanceDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bearish, sig.Direction)
	require.GreaterOrEqual(t, sig.Confidence, 70.0)
	require.Equal(t, models.PatternWritingImbalance, sig.Pattern)
}

func TestWritingImbalanceNeedsOppositeMoves(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	prev := models.MarketDataPoint{Timestamp: ts.Add(-time.Minute), ATMCallOI: 1000, ATMPutOI: 1000}
	cur := models.MarketDataPoint{Timestamp: ts, ATMCallOI: 1300, ATMPutOI: 1300}
	w.AddPoint(prev)
	w.AddPoint(cur)

	require.Nil(t, WritingImbalanceDetector{}.Detect(cur, w, cfg))
}

func TestFirstHourBreakoutBullish(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// first hour establishes a 22300-22500 range
	for i, price := range []float64{22400, 22300, 22450, 22500, 22420, 22380, 22440, 22410, 22460} {
		w.AddPoint(models.MarketDataPoint{
			Timestamp:   day.Add(9*time.Hour + time.Duration(20+i*5)*time.Minute),
			SpotPrice:   price,
			TotalVolume: 1000,
		})
	}

	cur := models.MarketDataPoint{
		Timestamp:   day.Add(12 * time.Hour),
		SpotPrice:   22550,
		TotalVolume: 5000,
	}
	w.AddPoint(cur)

	sig := FirstHourDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bullish, sig.Direction)
	require.Equal(t, 22500.0, sig.Details["breakoutLevel"])
}

func TestFirstHourAbstainsInsideRange(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	for i, price := range []float64{22400, 22300, 22450, 22500, 22420} {
		w.AddPoint(models.MarketDataPoint{
			Timestamp:   day.Add(9*time.Hour + time.Duration(20+i*5)*time.Minute),
			SpotPrice:   price,
			TotalVolume: 1000,
		})
	}
	cur := models.MarketDataPoint{Timestamp: day.Add(12 * time.Hour), SpotPrice: 22450, TotalVolume: 5000}
	w.AddPoint(cur)

	require.Nil(t, FirstHourDetector{}.Detect(cur, w, cfg))
}

func TestFirstHourAbstainsBeforeClose(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	fillWindow(w, 5, day.Add(9*time.Hour+45*time.Minute), 22400, 1000)
	cur := models.MarketDataPoint{Timestamp: day.Add(9*time.Hour + 45*time.Minute), SpotPrice: 23000, TotalVolume: 9000}
	w.AddPoint(cur)

	// still inside the first hour: no breakout regardless of price
	require.Nil(t, FirstHourDetector{}.Detect(cur, w, cfg))
}

func TestOIDivergenceShortCovering(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	prev := models.MarketDataPoint{Timestamp: ts.Add(-time.Minute), SpotPrice: 22500, TotalCallOI: 50000, TotalPutOI: 50000}
	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22600, TotalCallOI: 47000, TotalPutOI: 48000}
	w.AddPoint(models.MarketDataPoint{Timestamp: ts.Add(-2 * time.Minute), SpotPrice: 22500, TotalCallOI: 50000, TotalPutOI: 50000})
	w.AddPoint(prev)
	w.AddPoint(cur)

	sig := OIDivergenceDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bullish, sig.Direction)
}

func TestMaxPainShiftBullish(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fillWindow(w, 3, ts, 22400, 1000)
	w.RecordMaxPain(22400)

	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22550}
	w.AddPoint(cur)

	sig := MaxPainShiftDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bullish, sig.Direction)
	require.Equal(t, 150.0, sig.Details["shift"])
}

func TestMaxPainShiftNeedsPriorCycle(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fillWindow(w, 3, ts, 22400, 1000)

	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 23000}
	w.AddPoint(cur)
	require.Nil(t, MaxPainShiftDetector{}.Detect(cur, w, cfg))
}

func TestIVCrushOnCallLeg(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 4; i > 0; i-- {
		w.AddPoint(models.MarketDataPoint{
			Timestamp: ts.Add(-time.Duration(i) * time.Minute),
			SpotPrice: 22500, TotalVolume: 1000,
			ATMCallIV: 20, ATMPutIV: 18,
		})
	}
	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22500, TotalVolume: 1000, ATMCallIV: 15, ATMPutIV: 18}
	w.AddPoint(cur)

	sig := IVCrushDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bullish, sig.Direction)
	require.Equal(t, "call", sig.Details["leg"])
}

func TestIVCrushAbstainsWhenPriceMoves(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	prices := []float64{22300, 22400, 22500, 22600}
	for i := 4; i > 0; i-- {
		w.AddPoint(models.MarketDataPoint{
			Timestamp: ts.Add(-time.Duration(i) * time.Minute),
			SpotPrice: prices[4-i], TotalVolume: 1000,
			ATMCallIV: 20, ATMPutIV: 18,
		})
	}
	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22700, TotalVolume: 1000, ATMCallIV: 15, ATMPutIV: 18}
	w.AddPoint(cur)

	require.Nil(t, IVCrushDetector{}.Detect(cur, w, cfg))
}

func TestVolumeAtKeyLevel(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fillWindow(w, 9, ts, 22480, 1000)

	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22510, TotalVolume: 5000}
	w.AddPoint(cur)

	sig := VolumeAtLevelDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bullish, sig.Direction)
	require.Equal(t, 22500.0, sig.Details["keyLevel"])
}

func TestVolumeAtKeyLevelTooFar(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fillWindow(w, 9, ts, 22480, 1000)

	// 22460 is 40 points off the nearest hundred, past the 20-point gate
	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22460, TotalVolume: 5000}
	w.AddPoint(cur)

	require.Nil(t, VolumeAtLevelDetector{}.Detect(cur, w, cfg))
}

func TestVWAPBreakoutBullish(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg)
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	// tight consolidation around 22500 builds the VWAP
	for i := 10; i > 0; i-- {
		w.AddPoint(models.MarketDataPoint{
			Timestamp:   ts.Add(-time.Duration(i) * time.Minute),
			SpotPrice:   22500,
			TotalVolume: 1000,
		})
	}
	cur := models.MarketDataPoint{Timestamp: ts, SpotPrice: 22600, TotalVolume: 4000}
	w.AddPoint(cur)

	sig := VWAPBreakoutDetector{}.Detect(cur, w, cfg)
	require.NotNil(t, sig)
	require.Equal(t, models.Bullish, sig.Direction)
}

func TestNearestRoundLevel(t *testing.T) {
	level, dist, ok := nearestRoundLevel(22510, []float64{100, 500, 1000})
	require.True(t, ok)
	require.Equal(t, 22500.0, level)
	require.Equal(t, 10.0, dist)

	_, _, ok = nearestRoundLevel(22510, nil)
	require.False(t, ok)
}

func TestClampConfidence(t *testing.T) {
	require.Equal(t, 0.0, clampConfidence(-3))
	require.Equal(t, 100.0, clampConfidence(120))
	require.Equal(t, 55.5, clampConfidence(55.5))
}

func TestPctChangeZeroPrev(t *testing.T) {
	require.Equal(t, 0.0, pctChange(100, 0))
	require.Equal(t, 10.0, pctChange(110, 100))
}

func TestCoarseMaxPainRounding(t *testing.T) {
	require.Equal(t, 22500.0, coarseMaxPain(22480))
	require.Equal(t, 22450.0, coarseMaxPain(22470))
	require.Equal(t, 0.0, coarseMaxPain(0))
}
