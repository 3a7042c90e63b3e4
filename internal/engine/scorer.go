package engine

import (
	"math"
	"time"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// Scorer grades raw detector output, drops low-confidence signals and
// aggregates what remains into the per-cycle result.
type Scorer struct {
	cfg *models.BreakoutConfig
}

func NewScorer(cfg *models.BreakoutConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score stamps strength and priority from confidence, filters out signals
// below the configured minimum and returns the aggregated result.
func (s *Scorer) Score(symbol string, ts time.Time, raw []*models.Signal, win domsvc.WindowView) models.AnalysisResult {
	kept := make([]models.Signal, 0, len(raw))
	for _, sig := range raw {
		if sig == nil || sig.Confidence < s.cfg.MinConfidenceThreshold {
			continue
		}
		sig.Strength, sig.Priority = grade(sig.Confidence)
		kept = append(kept, *sig)
	}

	return models.AnalysisResult{
		Symbol:    symbol,
		Timestamp: ts,
		Signals:   kept,
		Summary:   summarize(kept),
		State:     marketState(win),
	}
}

// grade maps confidence to the strength and priority buckets.
func grade(confidence float64) (models.Strength, models.Priority) {
	switch {
	case confidence >= 80:
		return models.Strong, models.PriorityHigh
	case confidence >= 60:
		return models.Moderate, models.PriorityMedium
	default:
		return models.Weak, models.PriorityLow
	}
}

// summarize counts directions and buckets; bias is a strict majority vote
// between bullish and bearish, neutral on a tie or no signals.
func summarize(signals []models.Signal) models.SignalSummary {
	sum := models.SignalSummary{Total: len(signals), Bias: models.Neutral}
	var confTotal float64
	for _, sig := range signals {
		confTotal += sig.Confidence
		switch sig.Direction {
		case models.Bullish:
			sum.Bullish++
		case models.Bearish:
			sum.Bearish++
		}
		if sig.Strength == models.Strong {
			sum.Strong++
		}
		if sig.Priority == models.PriorityHigh {
			sum.HighPriority++
		}
	}
	if sum.Total > 0 {
		sum.AvgConfidence = confTotal / float64(sum.Total)
	}
	switch {
	case sum.Bullish > sum.Bearish:
		sum.Bias = models.Bullish
	case sum.Bearish > sum.Bullish:
		sum.Bias = models.Bearish
	}
	return sum
}

// marketState derives the trend, volatility and volume context from the
// rolling window. With under 5 points everything is reported neutral.
func marketState(win domsvc.WindowView) models.MarketState {
	if win.Len() < 5 {
		return models.MarketState{Trend: "SIDEWAYS", Volatility: "LOW", VolumeProfile: "NORMAL"}
	}

	cur := win.At(win.Len() - 1)
	state := models.MarketState{
		Support:    math.Floor(cur.SpotPrice/100) * 100,
		Resistance: math.Ceil(cur.SpotPrice/100) * 100,
		VWAP:       win.VWAP(),
		MaxPain:    coarseMaxPain(cur.SpotPrice),
	}

	pts := win.Last(10)
	trendPct := pctChange(cur.SpotPrice, pts[0].SpotPrice)
	switch {
	case trendPct > 0.5:
		state.Trend = "BULLISH"
	case trendPct < -0.5:
		state.Trend = "BEARISH"
	default:
		state.Trend = "SIDEWAYS"
	}

	atmIV := (cur.ATMCallIV + cur.ATMPutIV) / 2
	switch {
	case atmIV > 20:
		state.Volatility = "HIGH"
	case atmIV > 15:
		state.Volatility = "MEDIUM"
	default:
		state.Volatility = "LOW"
	}

	avg := win.AverageVolume()
	switch {
	case avg > 0 && cur.TotalVolume > 2*avg:
		state.VolumeProfile = "HIGH"
	case avg > 0 && cur.TotalVolume < 0.5*avg:
		state.VolumeProfile = "LOW"
	default:
		state.VolumeProfile = "NORMAL"
	}
	return state
}
