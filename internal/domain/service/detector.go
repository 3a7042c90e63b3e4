package service

import "ChainPulse/internal/domain/models"

// WindowView is the read-only view of the rolling window that detectors
// receive. Only the window's owner may mutate it.
type WindowView interface {
	// Len is the number of retained points.
	Len() int
	// At returns the i-th point, 0 being the oldest retained.
	At(i int) models.MarketDataPoint
	// Last returns up to n most recent points, oldest first.
	Last(n int) []models.MarketDataPoint
	// AverageVolume is the mean volume of the last 10 points, 0 if fewer
	// than 5 points exist.
	AverageVolume() float64
	// VWAP is the session volume-weighted average price, 0 if empty.
	VWAP() float64
	// FirstHourRange returns the locked first-hour high/low. ok is false
	// until at least one first-hour point has been seen today.
	FirstHourRange() (high, low float64, ok bool)
	// PrevMaxPain returns the coarse max pain recorded last cycle. ok is
	// false on the first cycle.
	PrevMaxPain() (float64, bool)
}

// Detector inspects the current point and window history and emits a
// signal when its pattern triggers. Implementations are stateless: a nil
// return means the pattern did not trigger, and detectors never error.
type Detector interface {
	Name() string
	MinHistory() int
	Detect(pt models.MarketDataPoint, win WindowView, cfg *models.BreakoutConfig) *models.Signal
}

// ChainAnalytics computes per-snapshot advanced metrics. Implementations
// must degrade to an empty result rather than fail the cycle.
type ChainAnalytics interface {
	Compute(snap *models.MarketSnapshot) models.AdvancedMetrics
}
