package engine

import (
	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
	"ChainPulse/pkg/logger"
)

// Engine runs the full detection cycle for one symbol: normalize the
// snapshot, roll the window forward, run every detector whose history
// requirement is met, score the output and compute advanced analytics.
// Engine is not safe for concurrent use; callers own one per symbol.
type Engine struct {
	symbol    string
	cfg       *models.BreakoutConfig
	window    *Window
	detectors []domsvc.Detector
	analytics domsvc.ChainAnalytics
	log       *logger.Logger
}

type Option func(*Engine)

func WithDetectors(ds []domsvc.Detector) Option {
	return func(e *Engine) { e.detectors = ds }
}

func WithAnalytics(a domsvc.ChainAnalytics) Option {
	return func(e *Engine) { e.analytics = a }
}

func NewEngine(symbol string, cfg *models.BreakoutConfig, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		symbol:    symbol,
		cfg:       cfg,
		window:    NewWindow(cfg),
		detectors: DefaultDetectors(),
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs one cycle against the snapshot. The advanced metrics are
// empty when no analytics engine is wired.
func (e *Engine) Analyze(snap *models.MarketSnapshot) (models.AnalysisResult, models.AdvancedMetrics) {
	pt := Normalize(snap)
	e.window.AddPoint(pt)

	result := e.Evaluate(pt)

	// Record after detection so the shift detector compares against the
	// previous cycle's value.
	e.window.RecordMaxPain(coarseMaxPain(pt.SpotPrice))

	adv := models.AdvancedMetrics{Symbol: e.symbol, Timestamp: pt.Timestamp}
	if e.analytics != nil {
		adv = e.analytics.Compute(snap)
		adv.Symbol = e.symbol
	}
	return result, adv
}

// Evaluate runs the detector set and scorer against the current window
// without mutating any engine state. Calling it repeatedly for the same
// point yields the same result.
func (e *Engine) Evaluate(pt models.MarketDataPoint) models.AnalysisResult {
	raw := make([]*models.Signal, 0, len(e.detectors))
	for _, d := range e.detectors {
		if e.window.Len() < d.MinHistory() {
			continue
		}
		if sig := d.Detect(pt, e.window, e.cfg); sig != nil {
			e.log.Debug("pattern fired",
				logger.String("symbol", e.symbol),
				logger.String("pattern", string(sig.Pattern)),
				logger.Float64("confidence", sig.Confidence),
			)
			raw = append(raw, sig)
		}
	}
	return NewScorer(e.cfg).Score(e.symbol, pt.Timestamp, raw, e.window)
}

// Window exposes the read-only window view, mainly for tests and the
// state endpoint.
func (e *Engine) Window() domsvc.WindowView { return e.window }
