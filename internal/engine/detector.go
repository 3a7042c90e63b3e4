package engine

import (
	"math"
	"time"

	"github.com/google/uuid"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// DefaultDetectors returns the full detector set in its fixed execution
// order. Detectors are independent; removing one never affects another.
func DefaultDetectors() []domsvc.Detector {
	return []domsvc.Detector{
		WritingImbalanceDetector{},
		VWAPBreakoutDetector{},
		OIDivergenceDetector{},
		FirstHourDetector{},
		MaxPainShiftDetector{},
		IVCrushDetector{},
		VolumeAtLevelDetector{},
	}
}

// newSignal builds a scored signal for the current point. Confidence is
// clamped to [0,100]; strength and priority are filled in by the scorer.
func newSignal(pattern models.Pattern, dir models.Direction, confidence float64, pt models.MarketDataPoint, msg string, details map[string]any) *models.Signal {
	return &models.Signal{
		ID:         uuid.NewString(),
		Pattern:    pattern,
		Direction:  dir,
		Confidence: clampConfidence(confidence),
		Timestamp:  pt.Timestamp,
		SpotPrice:  pt.SpotPrice,
		Message:    msg,
		Details:    details,
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// pctChange returns the percentage change from prev to cur, 0 when prev
// is 0 so degenerate inputs never produce NaN or Inf.
func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// priceRangePct is the high-low range of pts as a percentage of the mean
// price, 0 for an empty slice.
func priceRangePct(pts []models.MarketDataPoint) float64 {
	if len(pts) == 0 {
		return 0
	}
	hi, lo, sum := pts[0].SpotPrice, pts[0].SpotPrice, 0.0
	for _, p := range pts {
		if p.SpotPrice > hi {
			hi = p.SpotPrice
		}
		if p.SpotPrice < lo {
			lo = p.SpotPrice
		}
		sum += p.SpotPrice
	}
	mean := sum / float64(len(pts))
	if mean == 0 {
		return 0
	}
	return (hi - lo) / mean * 100
}

// coarseMaxPain is the nearest-50 rounding of spot used by the shift
// detector. The analytics engine computes a separate payout-minimizing
// max pain; the two intentionally diverge (see DESIGN.md).
func coarseMaxPain(spot float64) float64 {
	return math.Round(spot/50) * 50
}

// afterFirstHour reports whether t is past the configured first trading
// hour, by exchange-local wall clock.
func afterFirstHour(cfg *models.BreakoutConfig, t time.Time) bool {
	return t.Hour()*60+t.Minute() >= parseOpenMinute(cfg.MarketOpen)+cfg.FirstHourMinutes
}
