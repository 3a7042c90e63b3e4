package analytics

import (
	"math"

	"ChainPulse/internal/domain/models"
)

// computeClusters finds contiguous runs of strikes whose combined OI
// exceeds 1.5x the chain average. Migration is the distance between the
// strongest cluster's center now and last cycle, reported only past 50
// points; a break alert fires when no cluster reaches strength 2.
func (e *Engine) computeClusters(snap *models.MarketSnapshot) models.OIClusterMetrics {
	m := models.OIClusterMetrics{}
	if len(snap.Strikes) == 0 {
		m.BreakAlert = true
		return m
	}

	var chainTotal float64
	for _, sq := range snap.Strikes {
		chainTotal += sq.Call.OpenInterest + sq.Put.OpenInterest
	}
	avg := chainTotal / float64(len(snap.Strikes))
	if avg == 0 {
		m.BreakAlert = true
		return m
	}

	var run []models.StrikeQuote
	flush := func() {
		if len(run) > 0 {
			m.Clusters = append(m.Clusters, buildCluster(run, avg))
			run = nil
		}
	}
	for _, sq := range snap.Strikes {
		if sq.Call.OpenInterest+sq.Put.OpenInterest > 1.5*avg {
			run = append(run, sq)
			continue
		}
		flush()
	}
	flush()

	var strongest *models.OICluster
	for i := range m.Clusters {
		if strongest == nil || m.Clusters[i].Strength > strongest.Strength {
			strongest = &m.Clusters[i]
		}
	}

	if strongest != nil && e.prevClusterCenter != 0 {
		if d := math.Abs(strongest.Center - e.prevClusterCenter); d > 50 {
			m.Migration = d
		}
	}
	if strongest != nil {
		e.prevClusterCenter = strongest.Center
	}

	m.BreakAlert = strongest == nil || strongest.Strength < 2
	return m
}

func buildCluster(run []models.StrikeQuote, chainAvg float64) models.OICluster {
	c := models.OICluster{Type: "balanced"}
	var weighted, callOI, putOI float64
	for _, sq := range run {
		oi := sq.Call.OpenInterest + sq.Put.OpenInterest
		c.Strikes = append(c.Strikes, sq.Strike)
		c.TotalOI += oi
		weighted += sq.Strike * oi
		callOI += sq.Call.OpenInterest
		putOI += sq.Put.OpenInterest
	}
	if c.TotalOI > 0 {
		c.Center = weighted / c.TotalOI
	}
	c.Strength = c.TotalOI / chainAvg
	switch {
	case callOI > 1.2*putOI:
		c.Type = "call_heavy"
	case putOI > 1.2*callOI:
		c.Type = "put_heavy"
	}
	return c
}
