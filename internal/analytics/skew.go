package analytics

import "ChainPulse/internal/domain/models"

// computeIVSkew builds the smile summary: ATM IV is the call/put mean at
// the ATM strike, call-side skew is measured at +1/+2/+3 strike steps,
// put-side symmetrically on the downside. Overall skew is the offset-2
// put/call difference; velocity is the change since the previous overall
// reading held in the ring.
func (e *Engine) computeIVSkew(snap *models.MarketSnapshot) models.IVSkewMetrics {
	step := snap.Step()
	atm := snap.StrikeAt(snap.ATMStrike)
	if atm == nil || step == 0 {
		return models.IVSkewMetrics{}
	}

	m := models.IVSkewMetrics{
		ATMIV: (atm.Call.ImpliedVol + atm.Put.ImpliedVol) / 2,
	}

	for offset := 1; offset <= 3; offset++ {
		if sq := snap.StrikeAt(snap.ATMStrike + float64(offset)*step); sq != nil {
			m.CallSkew = append(m.CallSkew, models.SkewPoint{
				Offset: offset,
				Strike: sq.Strike,
				Skew:   sq.Call.ImpliedVol - atm.Call.ImpliedVol,
			})
		}
		if sq := snap.StrikeAt(snap.ATMStrike - float64(offset)*step); sq != nil {
			m.PutSkew = append(m.PutSkew, models.SkewPoint{
				Offset: offset,
				Strike: sq.Strike,
				Skew:   sq.Put.ImpliedVol - atm.Put.ImpliedVol,
			})
		}
	}

	m.Overall = skewAtOffset(m.PutSkew, 2) - skewAtOffset(m.CallSkew, 2)

	if e.skewRing.Len() > 0 {
		vals := e.skewRing.Last(1)
		m.Velocity = m.Overall - vals[0]
	}
	e.skewRing.Push(m.Overall)
	return m
}

func skewAtOffset(points []models.SkewPoint, offset int) float64 {
	for _, p := range points {
		if p.Offset == offset {
			return p.Skew
		}
	}
	return 0
}
