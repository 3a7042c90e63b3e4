package analytics

import "ChainPulse/internal/domain/models"

// fullMaxPain returns the expiry price (among listed strikes) that
// minimizes the total payout owed by option sellers: for each candidate,
// sum in-the-money payout x open interest across the whole chain.
func fullMaxPain(snap *models.MarketSnapshot) float64 {
	if len(snap.Strikes) == 0 {
		return 0
	}

	best, bestPayout := 0.0, -1.0
	for _, candidate := range snap.Strikes {
		expiry := candidate.Strike
		var payout float64
		for _, sq := range snap.Strikes {
			if expiry > sq.Strike {
				payout += (expiry - sq.Strike) * sq.Call.OpenInterest
			}
			if expiry < sq.Strike {
				payout += (sq.Strike - expiry) * sq.Put.OpenInterest
			}
		}
		if bestPayout < 0 || payout < bestPayout {
			best, bestPayout = expiry, payout
		}
	}
	return best
}
