package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ChainPulse/internal/analytics"
	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	domsvc "ChainPulse/internal/domain/service"
	"ChainPulse/internal/engine"
	icache "ChainPulse/internal/service/cache"
	"ChainPulse/pkg/logger"
	"ChainPulse/pkg/queue"
)

// SnapshotProcessor runs one detection cycle per snapshot and routes the
// output to the configured backend. Engines are created lazily, one per
// symbol, so rolling state is never shared across indices.
type SnapshotProcessor struct {
	mu      sync.Mutex
	engines map[string]*engine.Engine

	cfg     *models.BreakoutConfig
	pub     drepo.Publisher
	store   drepo.ResultStorage
	jobs    queue.QueueService
	cache   icache.BytesCache
	metrics drepo.Metrics
	log     *logger.Logger
	backend string
}

// NewSnapshotProcessor creates a new SnapshotProcessor instance.
func NewSnapshotProcessor(
	cfg *models.BreakoutConfig,
	pub drepo.Publisher,
	store drepo.ResultStorage,
	jobs queue.QueueService,
	cache icache.BytesCache,
	metrics drepo.Metrics,
	log *logger.Logger,
	backend string,
) *SnapshotProcessor {
	return &SnapshotProcessor{
		engines: make(map[string]*engine.Engine),
		cfg:     cfg,
		pub:     pub,
		store:   store,
		jobs:    jobs,
		cache:   cache,
		metrics: metrics,
		log:     log,
		backend: backend,
	}
}

func (p *SnapshotProcessor) engineFor(symbol string) *engine.Engine {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.engines[symbol]
	if !ok {
		e = engine.NewEngine(symbol, p.cfg, p.log,
			engine.WithAnalytics(analytics.NewEngine(p.log)),
		)
		p.engines[symbol] = e
	}
	return e
}

// Process runs the detection cycle for one snapshot and routes the result.
func (p *SnapshotProcessor) Process(ctx context.Context, snap *models.MarketSnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}

	start := time.Now()
	result, adv := p.engineFor(snap.Symbol).Analyze(snap)

	p.metrics.RecordCycle(snap.Symbol)
	p.metrics.RecordSpot(snap.Symbol, snap.SpotPrice)
	for _, sig := range result.Signals {
		p.metrics.RecordSignal(snap.Symbol, string(sig.Pattern), string(sig.Direction))
	}

	p.cacheLatest(&result, &adv)

	var err error
	switch p.backend {
	case "kafka":
		if err = p.pub.PublishResult(ctx, &result); err == nil {
			err = p.pub.PublishAdvanced(ctx, &adv)
		}
	case "clickhouse":
		if err = p.store.StoreResult(ctx, &result); err == nil {
			err = p.store.StoreAdvanced(ctx, &adv)
		}
	case "queue":
		err = p.jobs.PublishMessage(ctx, PersistResultType, PersistResultPayload{
			Result:   result,
			Advanced: adv,
		})
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process snapshot: %w", err)
	}

	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// cacheLatest keeps the most recent result and advanced metrics per
// symbol for the read API; failures only cost cache freshness.
func (p *SnapshotProcessor) cacheLatest(r *models.AnalysisResult, adv *models.AdvancedMetrics) {
	if p.cache == nil {
		return
	}
	if b, err := json.Marshal(r); err == nil {
		_ = p.cache.SetBytes(LatestResultKey(r.Symbol), b, 2*time.Minute)
	}
	if b, err := json.Marshal(adv); err == nil {
		_ = p.cache.SetBytes(LatestAdvancedKey(adv.Symbol), b, 2*time.Minute)
	}
}

// Window exposes the rolling window of one symbol's engine, nil when the
// symbol has not been seen yet.
func (p *SnapshotProcessor) Window(symbol string) (domsvc.WindowView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.engines[symbol]
	if !ok {
		return nil, false
	}
	return e.Window(), true
}

// Close closes underlying resources if available.
func (p *SnapshotProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}

// LatestResultKey is the cache key of the most recent analysis result.
func LatestResultKey(symbol string) string { return "chainpulse:latest:result:" + symbol }

// LatestAdvancedKey is the cache key of the most recent advanced metrics.
func LatestAdvancedKey(symbol string) string { return "chainpulse:latest:advanced:" + symbol }
