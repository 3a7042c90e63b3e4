package usecase

import (
	"context"

	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	mid "ChainPulse/internal/middleware"
)

// SnapshotCollector pulls chain snapshots from the feed and hands them to
// the processor, optionally through the buffering pipeline.
type SnapshotCollector struct {
	stream  drepo.SnapshotStream
	proc    *SnapshotProcessor
	metrics drepo.Metrics
	pipe    *mid.SnapshotPipeline
}

// NewSnapshotCollector creates a new SnapshotCollector instance.
func NewSnapshotCollector(stream drepo.SnapshotStream, proc *SnapshotProcessor, metrics drepo.Metrics, pipe *mid.SnapshotPipeline) *SnapshotCollector {
	return &SnapshotCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the feed is connected.
func (c *SnapshotCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SnapshotCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	snapCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, snapCh, errCh)
	return nil
}

func (c *SnapshotCollector) consume(ctx context.Context, snapCh <-chan *models.MarketSnapshot, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case snap := <-snapCh:
			if snap == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, snap)
			} else {
				_ = c.proc.Process(ctx, snap)
			}
		}
	}
}

func (c *SnapshotCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying SnapshotProcessor for lifecycle management.
func (c *SnapshotCollector) Processor() *SnapshotProcessor { return c.proc }

// Shutdown stops pipeline and closes stream.
func (c *SnapshotCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
