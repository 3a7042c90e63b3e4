package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// FirstHourDetector fires when price breaks the locked first-hour range
// on expanded volume, after the first hour has closed.
type FirstHourDetector struct{}

func (FirstHourDetector) Name() string    { return "first_hour_breakout" }
func (FirstHourDetector) MinHistory() int { return 5 }

func (FirstHourDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	if !afterFirstHour(cfg, pt.Timestamp) {
		return nil
	}
	high, low, ok := win.FirstHourRange()
	if !ok {
		return nil
	}
	avg := win.AverageVolume()
	if avg == 0 || pt.TotalVolume <= cfg.VolumeMultiplier*avg {
		return nil
	}

	var dir models.Direction
	var level float64
	switch {
	case pt.SpotPrice > high:
		dir, level = models.Bullish, high
	case pt.SpotPrice < low:
		dir, level = models.Bearish, low
	default:
		return nil
	}

	volRatio := pt.TotalVolume / avg
	breakPct := math.Abs(pt.SpotPrice-level) / level * 100
	conf := math.Min(95, 55+breakPct*30+volRatio*5)
	msg := fmt.Sprintf("first-hour range break at %.2f (range %.2f-%.2f) on %.1fx volume", pt.SpotPrice, low, high, volRatio)
	return newSignal(models.PatternFirstHour, dir, conf, pt, msg, map[string]any{
		"breakoutLevel": level,
		"rangeHigh":     high,
		"rangeLow":      low,
		"volumeRatio":   volRatio,
	})
}
