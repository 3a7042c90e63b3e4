package logger

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturingPublisher struct {
	mu     sync.Mutex
	topics []string
	logs   [][]AggregatedLogEntry
}

func (p *capturingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	if logs, ok := payload.([]AggregatedLogEntry); ok {
		p.logs = append(p.logs, logs)
	}
	return nil
}

func (p *capturingPublisher) flushed() ([]AggregatedLogEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.logs) == 0 {
		return nil, false
	}
	return p.logs[0], true
}

func TestCollectorAggregatesDuplicates(t *testing.T) {
	pub := &capturingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour, // flush driven by threshold, not timer
		CountThreshold: 2,
		Topic:          "logs.aggregated",
		Publisher:      pub,
	})
	defer c.Close()

	fields := map[string]interface{}{"symbol": "NIFTY"}
	c.AddLog("warn", "chain frame dropped", fields, "feed/ws.go:120")
	c.AddLog("warn", "chain frame dropped", fields, "feed/ws.go:120")
	c.AddLog("error", "publish failed", nil, "usecase/snapshot_processor.go:90")

	// threshold flush publishes asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for {
		if logs, ok := pub.flushed(); ok {
			found := false
			for _, entry := range logs {
				if entry.Message == "chain frame dropped" {
					found = true
					if entry.Count != 2 {
						t.Fatalf("expected duplicate count 2, got %d", entry.Count)
					}
				}
			}
			if !found {
				t.Fatalf("aggregated entry missing")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("flush never happened")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCollectorFinalFlushOnClose(t *testing.T) {
	pub := &capturingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs.aggregated",
		Publisher:      pub,
	})

	c.AddLog("info", "queue started", nil, "pkg/queue/redis.go:80")
	c.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := pub.flushed(); ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("close did not flush")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
