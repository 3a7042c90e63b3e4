package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ChainPulse/internal/domain/models"
)

func testConfig() *models.BreakoutConfig {
	cfg := models.DefaultBreakoutConfig()
	return &cfg
}

func pointAt(ts time.Time, price, volume float64) models.MarketDataPoint {
	return models.MarketDataPoint{Timestamp: ts, SpotPrice: price, TotalVolume: volume}
}

func TestWindowCompaction(t *testing.T) {
	cfg := testConfig()
	cfg.LookbackPeriods = 5
	w := NewWindow(cfg)

	base := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		w.AddPoint(pointAt(base.Add(time.Duration(i)*time.Minute), 100+float64(i), 10))
	}
	require.Equal(t, 10, w.Len())

	w.AddPoint(pointAt(base.Add(10*time.Minute), 110, 10))
	require.Equal(t, 5, w.Len())

	// survivors are the most recent 5, oldest first
	require.Equal(t, 106.0, w.At(0).SpotPrice)
	require.Equal(t, 110.0, w.At(4).SpotPrice)
}

func TestWindowVWAPIdenticalPoints(t *testing.T) {
	w := NewWindow(testConfig())
	base := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		w.AddPoint(pointAt(base.Add(time.Duration(i)*time.Minute), 22500, 1000))
	}
	require.Equal(t, 22500.0, w.VWAP())
}

func TestWindowVWAPDailyReset(t *testing.T) {
	w := NewWindow(testConfig())
	day1 := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	w.AddPoint(pointAt(day1, 100, 1000))
	w.AddPoint(pointAt(day1.Add(time.Minute), 100, 1000))
	require.Equal(t, 100.0, w.VWAP())

	day2 := day1.Add(24 * time.Hour)
	w.AddPoint(pointAt(day2, 200, 500))
	require.Equal(t, 200.0, w.VWAP())
}

func TestWindowVWAPZeroVolume(t *testing.T) {
	w := NewWindow(testConfig())
	w.AddPoint(pointAt(time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC), 100, 0))
	require.Equal(t, 0.0, w.VWAP())
}

func TestWindowFirstHourLock(t *testing.T) {
	w := NewWindow(testConfig())
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	w.AddPoint(pointAt(day.Add(9*time.Hour+20*time.Minute), 22400, 100))
	w.AddPoint(pointAt(day.Add(9*time.Hour+30*time.Minute), 22300, 100))
	w.AddPoint(pointAt(day.Add(9*time.Hour+40*time.Minute), 22500, 100))

	high, low, ok := w.FirstHourRange()
	require.True(t, ok)
	require.Equal(t, 22500.0, high)
	require.Equal(t, 22300.0, low)

	// a spike at 10:30 must not widen the locked range
	w.AddPoint(pointAt(day.Add(10*time.Hour+30*time.Minute), 23000, 100))
	high, low, ok = w.FirstHourRange()
	require.True(t, ok)
	require.Equal(t, 22500.0, high)
	require.Equal(t, 22300.0, low)
}

func TestWindowFirstHourDailyReset(t *testing.T) {
	w := NewWindow(testConfig())
	day1 := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	w.AddPoint(pointAt(day1, 22400, 100))
	_, _, ok := w.FirstHourRange()
	require.True(t, ok)

	// next day, first point lands after the first hour: no range yet
	day2 := time.Date(2025, 6, 3, 11, 0, 0, 0, time.UTC)
	w.AddPoint(pointAt(day2, 22600, 100))
	_, _, ok = w.FirstHourRange()
	require.False(t, ok)
}

func TestWindowAverageVolumeNeedsHistory(t *testing.T) {
	w := NewWindow(testConfig())
	base := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		w.AddPoint(pointAt(base.Add(time.Duration(i)*time.Minute), 100, 1000))
	}
	require.Equal(t, 0.0, w.AverageVolume())

	w.AddPoint(pointAt(base.Add(4*time.Minute), 100, 1000))
	require.Equal(t, 1000.0, w.AverageVolume())
}

func TestWindowPrevMaxPain(t *testing.T) {
	w := NewWindow(testConfig())
	_, ok := w.PrevMaxPain()
	require.False(t, ok)

	w.RecordMaxPain(22450)
	v, ok := w.PrevMaxPain()
	require.True(t, ok)
	require.Equal(t, 22450.0, v)
}

func TestParseOpenMinuteFallback(t *testing.T) {
	require.Equal(t, 9*60+15, parseOpenMinute("09:15"))
	require.Equal(t, 9*60+15, parseOpenMinute("garbage"))
	require.Equal(t, 3*60+30, parseOpenMinute("03:30"))
}
