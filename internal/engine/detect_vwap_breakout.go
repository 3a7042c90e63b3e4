package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// VWAPBreakoutDetector looks for a tight consolidation that resolves away
// from VWAP on expanded volume.
type VWAPBreakoutDetector struct{}

func (VWAPBreakoutDetector) Name() string    { return "vwap_volume_breakout" }
func (VWAPBreakoutDetector) MinHistory() int { return 10 }

func (VWAPBreakoutDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	// consolidation: last-10 range under 0.5% of the average price
	if priceRangePct(win.Last(10)) >= 0.5 {
		return nil
	}

	vwap := win.VWAP()
	if vwap == 0 {
		return nil
	}
	distPct := math.Abs(pt.SpotPrice-vwap) / vwap * 100
	if distPct <= cfg.VWAPDistanceThreshold {
		return nil
	}

	avg := win.AverageVolume()
	if avg == 0 || pt.TotalVolume <= cfg.VolumeMultiplier*avg {
		return nil
	}

	dir := models.Bearish
	if pt.SpotPrice > vwap {
		dir = models.Bullish
	}
	volRatio := pt.TotalVolume / avg
	conf := math.Min(95, 50+distPct*40+volRatio*5)
	msg := fmt.Sprintf("breakout from consolidation %.2f%% off VWAP on %.1fx volume", distPct, volRatio)
	return newSignal(models.PatternVWAPBreakout, dir, conf, pt, msg, map[string]any{
		"vwap":        vwap,
		"distancePct": distPct,
		"volumeRatio": volRatio,
	})
}
