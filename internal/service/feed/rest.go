package feed

import (
	"context"
	"fmt"
	"time"

	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	xhttp "ChainPulse/pkg/http"
	"ChainPulse/pkg/logger"
)

// RESTPoller implements SnapshotStream by polling the chain gateway's
// option-chain endpoint on a fixed interval, one request per symbol.
type RESTPoller struct {
	baseURL      string
	apiKey       string
	symbols      []string
	pollInterval time.Duration

	client    *xhttp.Client
	log       *logger.Logger
	connected bool
}

// NewRESTPoller creates a polling SnapshotStream.
func NewRESTPoller(baseURL, apiKey string, symbols []string, pollInterval time.Duration, log *logger.Logger) drepo.SnapshotStream {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &RESTPoller{
		baseURL:      baseURL,
		apiKey:       apiKey,
		symbols:      symbols,
		pollInterval: pollInterval,
		client:       xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		log:          log,
	}
}

// Connect verifies the gateway is reachable with a single fetch.
func (p *RESTPoller) Connect(ctx context.Context) error {
	if len(p.symbols) == 0 {
		return fmt.Errorf("rest poller: no symbols configured")
	}
	if _, err := p.fetch(ctx, p.symbols[0]); err != nil {
		return fmt.Errorf("rest poller connect: %w", err)
	}
	p.connected = true
	p.log.Info("chain gateway reachable", logger.String("base_url", p.baseURL))
	return nil
}

// Subscribe is a no-op; the symbol list is fixed at construction.
func (p *RESTPoller) Subscribe(ctx context.Context) error {
	if !p.connected {
		return fmt.Errorf("rest poller not connected")
	}
	return nil
}

// Read polls every symbol each interval and streams the snapshots.
func (p *RESTPoller) Read(ctx context.Context) (<-chan *models.MarketSnapshot, <-chan error) {
	snaps := make(chan *models.MarketSnapshot, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(snaps)
		defer close(errs)

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		p.pollAll(ctx, snaps, errs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.pollAll(ctx, snaps, errs)
			}
		}
	}()

	return snaps, errs
}

func (p *RESTPoller) pollAll(ctx context.Context, snaps chan<- *models.MarketSnapshot, errs chan<- error) {
	for _, symbol := range p.symbols {
		snap, err := p.fetch(ctx, symbol)
		if err != nil {
			p.log.Warn("chain poll failed",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
			select {
			case errs <- err:
			default:
			}
			continue
		}
		select {
		case snaps <- snap:
		default:
			// drop on backpressure
		}
	}
}

func (p *RESTPoller) fetch(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	var w wireChain
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/option-chain-indices",
		Headers: map[string]string{
			"Accept":    "application/json",
			"X-Api-Key": p.apiKey,
		},
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &w)
	if err != nil {
		return nil, fmt.Errorf("fetch chain %s: %w", symbol, err)
	}
	return toSnapshot(symbol, &w)
}

// Reconnect re-verifies reachability.
func (p *RESTPoller) Reconnect(ctx context.Context) error {
	p.connected = false
	return p.Connect(ctx)
}

// Close marks the poller disconnected; the Read loop stops with its context.
func (p *RESTPoller) Close() error {
	p.connected = false
	return nil
}

// IsConnected indicates status.
func (p *RESTPoller) IsConnected() bool { return p.connected }
