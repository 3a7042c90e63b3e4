package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	"ChainPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

// WSClient implements SnapshotStream over the chain gateway's WebSocket,
// which pushes a full chain frame per symbol whenever the board refreshes.
type WSClient struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	log       *logger.Logger
	connected bool
}

// NewWSClient creates a streaming SnapshotStream.
func NewWSClient(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.SnapshotStream {
	return &WSClient{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (c *WSClient) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("chain ws connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("chain ws connected")
	return nil
}

// Subscribe subscribes to configured symbols.
func (c *WSClient) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("chain ws not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		c.log.Info("chain ws subscribed", logger.String("symbol", s))
	}
	return nil
}

type wsFrame struct {
	Type   string    `json:"type"`
	Symbol string    `json:"symbol"`
	Data   wireChain `json:"data"`
}

// Read streams snapshots and errors.
func (c *WSClient) Read(ctx context.Context) (<-chan *models.MarketSnapshot, <-chan error) {
	snaps := make(chan *models.MarketSnapshot, 64)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(snaps)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("chain ws conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("chain ws read: %w", err)
					return
				}
				var f wsFrame
				if err := json.Unmarshal(b, &f); err != nil {
					// ignore non-chain frames
					continue
				}
				if f.Type != "chain" || f.Symbol == "" {
					continue
				}
				snap, err := toSnapshot(f.Symbol, &f.Data)
				if err != nil {
					c.log.Warn("chain frame dropped",
						logger.String("symbol", f.Symbol),
						logger.Error(err),
					)
					continue
				}
				select {
				case snaps <- snap:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return snaps, errs
}

// Reconnect closes and reconnects.
func (c *WSClient) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *WSClient) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *WSClient) IsConnected() bool { return c.connected }
