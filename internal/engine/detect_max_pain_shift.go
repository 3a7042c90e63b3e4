package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// MaxPainShiftDetector compares the coarse max pain (spot rounded to the
// nearest 50) against the value recorded last cycle and fires on a shift
// of at least the configured number of points.
type MaxPainShiftDetector struct{}

func (MaxPainShiftDetector) Name() string    { return "max_pain_shift" }
func (MaxPainShiftDetector) MinHistory() int { return 3 }

func (MaxPainShiftDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	prev, ok := win.PrevMaxPain()
	if !ok {
		return nil
	}
	cur := coarseMaxPain(pt.SpotPrice)
	shift := cur - prev
	if math.Abs(shift) < cfg.MaxPainShiftThreshold {
		return nil
	}

	dir := models.Bearish
	if shift > 0 {
		dir = models.Bullish
	}
	conf := math.Min(95, 50+math.Abs(shift)/5)
	msg := fmt.Sprintf("max pain shifted %+.0f points to %.0f", shift, cur)
	return newSignal(models.PatternMaxPainShift, dir, conf, pt, msg, map[string]any{
		"maxPain":     cur,
		"prevMaxPain": prev,
		"shift":       shift,
	})
}
