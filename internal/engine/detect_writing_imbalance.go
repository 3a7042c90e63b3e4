package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// WritingImbalanceDetector fires when ATM call and put open interest move
// sharply in opposite directions between consecutive cycles. Heavy call
// writing with put unwinding reads bearish, the mirror reads bullish.
type WritingImbalanceDetector struct{}

func (WritingImbalanceDetector) Name() string    { return "writing_imbalance" }
func (WritingImbalanceDetector) MinHistory() int { return 2 }

func (WritingImbalanceDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	prev := win.At(win.Len() - 2)
	dCall := pctChange(pt.ATMCallOI, prev.ATMCallOI)
	dPut := pctChange(pt.ATMPutOI, prev.ATMPutOI)

	if math.Abs(dCall) < cfg.OIChangeThreshold || math.Abs(dPut) < cfg.OIChangeThreshold {
		return nil
	}
	if dCall*dPut >= 0 {
		return nil
	}

	dir := models.Bearish
	if dPut > 0 {
		dir = models.Bullish
	}
	conf := math.Min(95, math.Abs(dCall-dPut)*2)
	msg := fmt.Sprintf("ATM writing imbalance: call OI %+.1f%%, put OI %+.1f%%", dCall, dPut)
	return newSignal(models.PatternWritingImbalance, dir, conf, pt, msg, map[string]any{
		"callOIChangePct": dCall,
		"putOIChangePct":  dPut,
	})
}
