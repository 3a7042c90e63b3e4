package analytics

import (
	"math"

	"ChainPulse/internal/domain/models"
)

// GammaModel approximates per-contract gamma. Kept behind an interface so
// the fixed-constant approximation can be swapped for a real pricing
// model without touching the exposure aggregation.
type GammaModel interface {
	Gamma(spot, strike, iv float64) float64
}

// bsGamma is a simplified Black-Scholes gamma with a fixed 5% risk-free
// rate and a fixed ~7-day time to expiry.
type bsGamma struct{}

const (
	riskFreeRate = 0.05
	timeToExpiry = 7.0 / 365.0
)

func (bsGamma) Gamma(spot, strike, iv float64) float64 {
	if spot <= 0 || strike <= 0 || iv <= 0 {
		return 0
	}
	sigma := iv / 100
	sqrtT := math.Sqrt(timeToExpiry)
	d1 := (math.Log(spot/strike) + (riskFreeRate+sigma*sigma/2)*timeToExpiry) / (sigma * sqrtT)
	pdf := math.Exp(-d1*d1/2) / math.Sqrt(2*math.Pi)
	return pdf / (spot * sigma * sqrtT)
}

// computeGEX aggregates dealer gamma exposure per strike, scaled by
// OI x 100 with the put side negated. The zero-gamma level is the
// midpoint of the sign-change interval nearest spot.
func (e *Engine) computeGEX(snap *models.MarketSnapshot) models.GEXMetrics {
	m := models.GEXMetrics{DominantZone: "neutral"}
	spot := snap.SpotPrice

	for _, sq := range snap.Strikes {
		call := e.gamma.Gamma(spot, sq.Strike, sq.Call.ImpliedVol) * sq.Call.OpenInterest * 100
		put := -e.gamma.Gamma(spot, sq.Strike, sq.Put.ImpliedVol) * sq.Put.OpenInterest * 100
		m.PerStrike = append(m.PerStrike, models.StrikeGEX{
			Strike: sq.Strike,
			Call:   call,
			Put:    put,
			Net:    call + put,
		})
		m.Total += call + put
	}

	m.ZeroGammaLevel = zeroGammaLevel(m.PerStrike, spot)

	switch {
	case m.Total > 50000:
		m.DominantZone = "long"
	case m.Total < -50000:
		m.DominantZone = "short"
	}
	return m
}

// zeroGammaLevel finds the strike interval where net GEX flips sign,
// preferring the flip closest to spot. 0 when no flip exists.
func zeroGammaLevel(strikes []models.StrikeGEX, spot float64) float64 {
	best, bestDist := 0.0, math.MaxFloat64
	for i := 1; i < len(strikes); i++ {
		if strikes[i-1].Net*strikes[i].Net >= 0 {
			continue
		}
		mid := (strikes[i-1].Strike + strikes[i].Strike) / 2
		if d := math.Abs(mid - spot); d < bestDist {
			best, bestDist = mid, d
		}
	}
	return best
}
