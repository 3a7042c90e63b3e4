package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// VolumeAtLevelDetector fires on a heavy-volume print near a round price
// level. Levels are multiples of the configured round steps; proximity is
// measured in points.
type VolumeAtLevelDetector struct{}

func (VolumeAtLevelDetector) Name() string    { return "volume_at_key_level" }
func (VolumeAtLevelDetector) MinHistory() int { return 5 }

func (VolumeAtLevelDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	avg := win.AverageVolume()
	if avg == 0 || pt.TotalVolume <= cfg.HighVolumeMultiplier*avg {
		return nil
	}

	level, dist, ok := nearestRoundLevel(pt.SpotPrice, cfg.RoundLevels)
	if !ok || dist > cfg.LevelProximityThreshold {
		return nil
	}

	dir := models.Bearish
	if pt.SpotPrice >= level {
		dir = models.Bullish
	}
	volRatio := pt.TotalVolume / avg
	conf := math.Min(90, 50+volRatio*8+(cfg.LevelProximityThreshold-dist))
	msg := fmt.Sprintf("%.1fx volume within %.0f points of key level %.0f", volRatio, dist, level)
	return newSignal(models.PatternVolumeAtLevel, dir, conf, pt, msg, map[string]any{
		"keyLevel":    level,
		"distance":    dist,
		"volumeRatio": volRatio,
	})
}

// nearestRoundLevel returns the closest multiple of any configured round
// step to price, with its absolute distance.
func nearestRoundLevel(price float64, steps []float64) (level, dist float64, ok bool) {
	dist = math.MaxFloat64
	for _, step := range steps {
		if step <= 0 {
			continue
		}
		l := math.Round(price/step) * step
		if d := math.Abs(price - l); d < dist {
			level, dist, ok = l, d, true
		}
	}
	return level, dist, ok
}
