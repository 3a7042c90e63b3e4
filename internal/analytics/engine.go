package analytics

import (
	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
	"ChainPulse/pkg/logger"
)

// Engine computes per-snapshot advanced metrics with short ring-buffer
// history for skew velocity and cluster migration. One instance per
// tracked symbol; not safe for concurrent use.
type Engine struct {
	gamma             GammaModel
	skewRing          *ring
	priceRing         *ring
	prevClusterCenter float64
	log               *logger.Logger
}

type Option func(*Engine)

// WithGammaModel swaps the fixed-constant gamma approximation for
// another pricing model.
func WithGammaModel(m GammaModel) Option {
	return func(e *Engine) { e.gamma = m }
}

func NewEngine(log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		gamma:     bsGamma{},
		skewRing:  newRing(100),
		priceRing: newRing(100),
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ domsvc.ChainAnalytics = (*Engine)(nil)

// Compute runs every analytic against the snapshot. A panic anywhere in
// the computation degrades this cycle to empty metrics; it never
// propagates to the caller's detection cycle.
func (e *Engine) Compute(snap *models.MarketSnapshot) (m models.AdvancedMetrics) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("analytics cycle degraded",
				logger.String("symbol", snap.Symbol),
				logger.Any("panic", r),
			)
			m = models.AdvancedMetrics{Symbol: snap.Symbol, Timestamp: snap.Timestamp}
		}
	}()

	m = models.AdvancedMetrics{
		Symbol:    snap.Symbol,
		Timestamp: snap.Timestamp,
		IVSkew:    e.computeIVSkew(snap),
		GEX:       e.computeGEX(snap),
		Clusters:  e.computeClusters(snap),
		MaxPain:   fullMaxPain(snap),
	}
	motif, corr, discord, score := e.computePatterns(snap.SpotPrice)
	m.Patterns = models.PatternMetrics{
		MotifDetected:    motif,
		MotifCorrelation: corr,
		DiscordDetected:  discord,
		DiscordScore:     score,
	}
	return m
}
