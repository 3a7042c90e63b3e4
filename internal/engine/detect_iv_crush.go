package engine

import (
	"fmt"
	"math"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// IVCrushDetector fires when ATM implied volatility on either leg drops
// sharply below its short average while price holds steady. The setup is
// read as pre-breakout compression, so the direction is always bullish.
type IVCrushDetector struct{}

func (IVCrushDetector) Name() string    { return "iv_crush" }
func (IVCrushDetector) MinHistory() int { return 5 }

func (IVCrushDetector) Detect(pt models.MarketDataPoint, win domsvc.WindowView, cfg *models.BreakoutConfig) *models.Signal {
	pts := win.Last(5)
	var callSum, putSum float64
	for _, p := range pts {
		callSum += p.ATMCallIV
		putSum += p.ATMPutIV
	}
	n := float64(len(pts))
	callDrop := callSum/n - pt.ATMCallIV
	putDrop := putSum/n - pt.ATMPutIV

	drop := math.Max(callDrop, putDrop)
	if drop <= cfg.IVDropThreshold {
		return nil
	}
	if priceRangePct(pts) >= cfg.IVStabilityThreshold {
		return nil
	}

	leg := "call"
	if putDrop > callDrop {
		leg = "put"
	}
	conf := math.Min(90, 50+drop*10)
	msg := fmt.Sprintf("IV crush on %s leg: %.2f points below 5-period mean with stable price", leg, drop)
	return newSignal(models.PatternIVCrush, models.Bullish, conf, pt, msg, map[string]any{
		"leg":        leg,
		"ivDrop":     drop,
		"callIVDrop": callDrop,
		"putIVDrop":  putDrop,
	})
}
