package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// OIDivergenceDetector flags price/open-interest divergence: rising price
// on falling total OI is short covering, falling price on rising OI is
// fresh short buildup.
type OIDivergenceDetector struct{}

func (OIDivergenceDetector) Name() string    { return "oi_price_divergence" }
func (OIDivergenceDetector) MinHistory() int { return 3 }

func (OIDivergenceDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	prev := win.At(win.Len() - 2)
	priceD := pctChange(pt.SpotPrice, prev.SpotPrice)
	oiD := pctChange(pt.TotalOI(), prev.TotalOI())

	var dir models.Direction
	var kind string
	switch {
	case priceD > 0.2 && oiD < -2:
		dir, kind = models.Bullish, "short covering"
	case priceD < -0.2 && oiD > 2:
		dir, kind = models.Bearish, "fresh shorts"
	default:
		return nil
	}

	conf := math.Min(90, 50+math.Abs(oiD)*5+math.Abs(priceD)*20)
	msg := fmt.Sprintf("%s: price %+.2f%% with total OI %+.2f%%", kind, priceD, oiD)
	return newSignal(models.PatternOIDivergence, dir, conf, pt, msg, map[string]any{
		"priceChangePct": priceD,
		"oiChangePct":    oiD,
	})
}
