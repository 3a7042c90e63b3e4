package analytics

import "math"

// computePatterns pushes the current spot into the price ring and flags
// motifs and discords. A motif is a repeat of the prior 10-value shape
// (correlation > 0.8, needs 20 points); a discord is a price more than 2
// standard deviations from the 10-value mean (needs 10 points).
func (e *Engine) computePatterns(spot float64) (motif bool, corr float64, discord bool, score float64) {
	e.priceRing.Push(spot)

	if e.priceRing.Len() >= 20 {
		last20 := e.priceRing.Last(20)
		corr = correlation(last20[10:], last20[:10])
		motif = corr > 0.8
	}

	if e.priceRing.Len() >= 10 {
		last10 := e.priceRing.Last(10)
		m, sd := mean(last10), stddev(last10)
		if sd > 0 {
			score = math.Abs(spot-m) / sd
			discord = math.Abs(spot-m) > 2*sd
		}
	}
	return motif, corr, discord, score
}

// correlation is the Pearson coefficient of two equal-length series, 0
// when either side is constant.
func correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	ma, mb := mean(a), mean(b)
	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}
