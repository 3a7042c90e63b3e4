package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	icache "ChainPulse/internal/service/cache"
)

// AnalysisQueryUseCase serves read requests: the latest cached cycle
// output per symbol and historical signals from storage.
type AnalysisQueryUseCase struct {
	store drepo.ResultStorage
	cache icache.BytesCache
}

func NewAnalysisQueryUseCase(store drepo.ResultStorage, cache icache.BytesCache) *AnalysisQueryUseCase {
	return &AnalysisQueryUseCase{store: store, cache: cache}
}

type GetSignalsParams struct {
	Symbol        string
	From          time.Time
	To            time.Time
	MinConfidence float64
	Limit         int
}

type GetSignalsResult struct {
	Symbol  string          `json:"symbol"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Count   int             `json:"count"`
	Signals []models.Signal `json:"signals"`
}

// GetSignals returns stored signals for a symbol within a time range.
func (uc *AnalysisQueryUseCase) GetSignals(ctx context.Context, p GetSignalsParams) (*GetSignalsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	signals, err := uc.store.QuerySignals(ctx, p.Symbol, p.From, p.To, p.MinConfidence, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}

	return &GetSignalsResult{
		Symbol:  p.Symbol,
		From:    p.From,
		To:      p.To,
		Count:   len(signals),
		Signals: signals,
	}, nil
}

// LatestResult returns the most recent cached analysis result for a
// symbol, or nil when no cycle has completed yet.
func (uc *AnalysisQueryUseCase) LatestResult(_ context.Context, symbol string) (*models.AnalysisResult, error) {
	b, ok, err := uc.cache.GetBytes(LatestResultKey(symbol))
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var r models.AnalysisResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &r, nil
}

// Health reports storage reachability.
func (uc *AnalysisQueryUseCase) Health(ctx context.Context) error {
	return uc.store.Health(ctx)
}

// LatestAdvanced returns the most recent cached advanced metrics for a
// symbol, or nil when no cycle has completed yet.
func (uc *AnalysisQueryUseCase) LatestAdvanced(_ context.Context, symbol string) (*models.AdvancedMetrics, error) {
	b, ok, err := uc.cache.GetBytes(LatestAdvancedKey(symbol))
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var m models.AdvancedMetrics
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode cached advanced metrics: %w", err)
	}
	return &m, nil
}
