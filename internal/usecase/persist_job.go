package usecase

import (
	"context"
	"fmt"

	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	"ChainPulse/pkg/queue"
)

// PersistResultType is the queue message type for analysis persistence.
const PersistResultType = "persist_result"

// PersistResultPayload is the queued unit of persistence work.
type PersistResultPayload struct {
	Result   models.AnalysisResult  `json:"result"`
	Advanced models.AdvancedMetrics `json:"advanced"`
}

// PersistResultJob drains queued analysis output into storage.
type PersistResultJob struct {
	store   drepo.ResultStorage
	metrics drepo.Metrics
}

func NewPersistResultJob(store drepo.ResultStorage, metrics drepo.Metrics) *PersistResultJob {
	return &PersistResultJob{store: store, metrics: metrics}
}

func (j *PersistResultJob) Name() string { return "persist-result" }
func (j *PersistResultJob) Type() string { return PersistResultType }

func (j *PersistResultJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[PersistResultPayload](payload)
	if err != nil {
		j.metrics.RecordError("persist_payload")
		return fmt.Errorf("parse persist payload: %w", err)
	}

	if err := j.store.StoreResult(ctx, &p.Result); err != nil {
		j.metrics.RecordError("persist_result")
		return fmt.Errorf("store result: %w", err)
	}
	if err := j.store.StoreAdvanced(ctx, &p.Advanced); err != nil {
		j.metrics.RecordError("persist_advanced")
		return fmt.Errorf("store advanced: %w", err)
	}
	return nil
}

var _ queue.Job = (*PersistResultJob)(nil)
