package engine

import (
	"math"

	"ChainPulse/internal/domain/models"
)

// Normalize reduces a full chain snapshot to its ATM-centered data point.
// Absent legs or strikes contribute zeros; the point is always usable.
func Normalize(snap *models.MarketSnapshot) models.MarketDataPoint {
	pt := models.MarketDataPoint{
		Timestamp: snap.Timestamp,
		SpotPrice: snap.SpotPrice,
	}

	atm := snap.ATMStrike
	if atm == 0 && len(snap.Strikes) > 0 {
		atm = nearestStrike(snap)
	}

	for i := range snap.Strikes {
		row := &snap.Strikes[i]
		pt.TotalVolume += row.Call.Volume + row.Put.Volume
		pt.TotalCallOI += row.Call.OpenInterest
		pt.TotalPutOI += row.Put.OpenInterest
		if row.Strike == atm {
			pt.ATMCallOI = row.Call.OpenInterest
			pt.ATMPutOI = row.Put.OpenInterest
			pt.ATMCallIV = row.Call.ImpliedVol
			pt.ATMPutIV = row.Put.ImpliedVol
			pt.ATMCallVolume = row.Call.Volume
			pt.ATMPutVolume = row.Put.Volume
		}
	}
	return pt
}

func nearestStrike(snap *models.MarketSnapshot) float64 {
	best := snap.Strikes[0].Strike
	bestDist := math.Abs(best - snap.SpotPrice)
	for _, row := range snap.Strikes[1:] {
		if d := math.Abs(row.Strike - snap.SpotPrice); d < bestDist {
			best, bestDist = row.Strike, d
		}
	}
	return best
}
