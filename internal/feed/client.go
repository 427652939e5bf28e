// Package feed maintains the live market-data connection to Kraken and
// feeds the shared price state.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
)

const (
	defaultReconnectWait = 5 * time.Second
	defaultHTTPTimeout   = 10 * time.Second
	writeWait            = 10 * time.Second
)

// subscribeRequest is the single outbound message of a streaming session.
type subscribeRequest struct {
	Method string          `json:"method"`
	Params subscribeParams `json:"params"`
}

type subscribeParams struct {
	Channel  string   `json:"channel"`
	Symbol   []string `json:"symbol"`
	Snapshot bool     `json:"snapshot"`
}

// wsMessage is the tolerant inbound shape: frames that do not look like a
// ticker payload decode to zero values and are ignored.
type wsMessage struct {
	Channel string       `json:"channel"`
	Data    []tickerData `json:"data"`
}

// tickerData uses pointers where an absent field must stay distinguishable
// from zero.
type tickerData struct {
	Symbol string   `json:"symbol"`
	Last   *float64 `json:"last"`
	Change *float64 `json:"change"`
}

type restResponse struct {
	Result map[string]restTicker `json:"result"`
}

// restTicker exposes the 24h open as Kraken serves it, a numeric string.
type restTicker struct {
	Open string `json:"o"`
}

// connState tracks the connection lifecycle.
type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateSubscribed
	stateStreaming
)

func (s connState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateSubscribed:
		return "subscribed"
	case stateStreaming:
		return "streaming"
	default:
		return "disconnected"
	}
}

// Config carries the endpoints and instruments for the streaming client.
type Config struct {
	WSURL   string
	RESTURL string
	Symbols []string
	// ReconnectWait is the fixed pause between streaming sessions.
	// Defaults to 5 seconds.
	ReconnectWait time.Duration
	// HTTPTimeout bounds the reference-price fetch. Defaults to 10 seconds.
	HTTPTimeout time.Duration
}

// Client owns the network lifecycle: reference-price fetch, subscription,
// inbound tick processing, keepalive and reconnect. It mutates shared state
// only through the price store's methods and never performs I/O while the
// store lock is held.
type Client struct {
	cfg        Config
	state      *ticker.State
	logger     *zap.Logger
	httpClient *http.Client
	dialer     *websocket.Dialer
	status     connState
}

func NewClient(cfg Config, state *ticker.State, logger *zap.Logger) *Client {
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = defaultReconnectWait
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	return &Client{
		cfg:        cfg,
		state:      state,
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		dialer:     websocket.DefaultDialer,
	}
}

// Run drives the connection state machine until ctx ends. Every cycle
// fetches reference opens over REST, then connects, subscribes and streams.
// Any transport error tears the session down and the next cycle starts after
// the fixed reconnect pause; there is no terminal state and no backoff
// growth.
func (c *Client) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.fetchOpenPrices(ctx)

		if err := c.connectAndStream(ctx); err != nil {
			c.logger.Warn("Streaming session ended", zap.Error(err))
		}
		c.setStatus(stateDisconnected)

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectWait):
		}
	}
}

func (c *Client) setStatus(next connState) {
	if c.status == next {
		return
	}
	c.logger.Debug("Connection state changed",
		zap.String("from", c.status.String()),
		zap.String("to", next.String()))
	c.status = next
}

// connectAndStream runs one streaming session and returns when the transport
// fails or ctx ends.
func (c *Client) connectAndStream(ctx context.Context) error {
	c.setStatus(stateConnecting)
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.WSURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.WSURL, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context ends mid-session.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	// Protocol pings are answered with a pong carrying the same payload.
	// The handler fires inside ReadMessage, so it never races the
	// subscribe write below.
	conn.SetPingHandler(func(payload string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(payload), time.Now().Add(writeWait))
	})

	subscribe := subscribeRequest{
		Method: "subscribe",
		Params: subscribeParams{
			Channel:  "ticker",
			Symbol:   c.cfg.Symbols,
			Snapshot: true,
		},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	c.setStatus(stateSubscribed)
	c.logger.Info("Subscribed to ticker stream",
		zap.String("url", c.cfg.WSURL),
		zap.Strings("symbols", c.cfg.Symbols))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		c.setStatus(stateStreaming)
		c.handleMessage(message)
	}
}

// handleMessage applies one inbound frame. Decoding is tolerant: unknown
// shapes and malformed payloads are dropped without ending the session.
func (c *Client) handleMessage(message []byte) {
	var msg wsMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}
	if msg.Channel != "ticker" || len(msg.Data) == 0 {
		return
	}
	for _, tick := range msg.Data {
		if tick.Symbol == "" || tick.Last == nil {
			continue
		}
		last := *tick.Last
		c.state.UpdatePrice(tick.Symbol, last)
		// The change field keeps the reference open in sync without a
		// second REST round-trip.
		if tick.Change != nil {
			if open := last - *tick.Change; open > 0 {
				c.state.SetOpenPrice(tick.Symbol, open)
			}
		}
		c.logger.Debug("Tick applied", zap.String("symbol", tick.Symbol), zap.Float64("last", last))
	}
}

// fetchOpenPrices performs the one-shot reference lookup preceding every
// streaming session. All failures are non-fatal: without a reference the
// display degrades to percentage placeholders instead of blocking.
func (c *Client) fetchOpenPrices(ctx context.Context) {
	pairs := make([]string, 0, len(c.cfg.Symbols))
	for _, symbol := range c.cfg.Symbols {
		pairs = append(pairs, RestSymbol(symbol))
	}
	url := fmt.Sprintf("%s?pair=%s", c.cfg.RESTURL, strings.Join(pairs, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("Reference price request invalid", zap.Error(err))
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Reference price fetch failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Reference price fetch failed", zap.Int("status", resp.StatusCode))
		return
	}

	var decoded restResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Warn("Reference price decode failed", zap.Error(err))
		return
	}

	applied := 0
	for _, symbol := range c.cfg.Symbols {
		entry, ok := decoded.Result[RestSymbol(symbol)]
		if !ok {
			continue
		}
		open, err := strconv.ParseFloat(entry.Open, 64)
		if err != nil {
			continue
		}
		c.state.SetOpenPrice(symbol, open)
		applied++
	}
	c.logger.Debug("Reference prices applied", zap.Int("count", applied))
}
