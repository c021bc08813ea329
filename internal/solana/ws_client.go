package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSConfig tunes the WebSocket client.
type WSConfig struct {
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	SubscribeTimeout  time.Duration
}

// DefaultWSConfig returns the default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		SubscribeTimeout:  30 * time.Second,
	}
}

// WSClientImpl implements WSClient over gorilla/websocket with
// automatic reconnect and resubscription.
type WSClientImpl struct {
	endpoint string
	cfg      WSConfig

	conn   *websocket.Conn
	connMu sync.Mutex

	closed       atomic.Bool
	reconnecting atomic.Bool
	requestID    atomic.Uint64

	subsMu  sync.Mutex
	subs    map[int64]chan LogNotification // keyed by subscription id
	filters map[int64]LogsFilter           // for resubscription after reconnect
	pending map[uint64]chan int64          // request id -> subscription id

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSClient connects to the endpoint and starts the read and ping loops.
func NewWSClient(ctx context.Context, endpoint string, cfg *WSConfig) (*WSClientImpl, error) {
	config := DefaultWSConfig()
	if cfg != nil {
		config = *cfg
	}

	c := &WSClientImpl{
		endpoint: endpoint,
		cfg:      config,
		subs:     make(map[int64]chan LogNotification),
		filters:  make(map[int64]LogsFilter),
		pending:  make(map[uint64]chan int64),
		done:     make(chan struct{}),
	}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

// Compile-time interface check.
var _ WSClient = (*WSClientImpl)(nil)

func (c *WSClientImpl) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", c.endpoint, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// SubscribeLogs subscribes to logs matching the filter. The returned
// channel is closed when the client is closed.
func (c *WSClientImpl) SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan LogNotification, error) {
	subID, err := c.subscribe(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Buffer absorbs bursts; the notification dispatcher blocks rather
	// than drops when the buffer fills.
	ch := make(chan LogNotification, 10000)
	c.subsMu.Lock()
	c.subs[subID] = ch
	c.filters[subID] = filter
	c.subsMu.Unlock()

	log.Info().Strs("mentions", filter.Mentions).Int64("subId", subID).Msg("logs subscription established")
	return ch, nil
}

func (c *WSClientImpl) subscribe(ctx context.Context, filter LogsFilter) (int64, error) {
	if c.closed.Load() {
		return 0, fmt.Errorf("websocket client closed")
	}

	reqID := c.requestID.Add(1)

	var filterParam interface{}
	if len(filter.Mentions) > 0 {
		filterParam = map[string]interface{}{"mentions": filter.Mentions}
	} else {
		filterParam = "all"
	}
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "logsSubscribe",
		Params: []interface{}{
			filterParam,
			map[string]string{"commitment": "confirmed"},
		},
	}

	confirm := make(chan int64, 1)
	c.subsMu.Lock()
	c.pending[reqID] = confirm
	c.subsMu.Unlock()
	cleanup := func() {
		c.subsMu.Lock()
		delete(c.pending, reqID)
		c.subsMu.Unlock()
	}

	if err := c.writeJSON(req); err != nil {
		cleanup()
		return 0, fmt.Errorf("write subscribe: %w", err)
	}

	select {
	case subID := <-confirm:
		return subID, nil
	case <-time.After(c.cfg.SubscribeTimeout):
		cleanup()
		return 0, fmt.Errorf("subscription not confirmed within %s", c.cfg.SubscribeTimeout)
	case <-c.done:
		return 0, fmt.Errorf("websocket client closed")
	case <-ctx.Done():
		cleanup()
		return 0, ctx.Err()
	}
}

func (c *WSClientImpl) writeJSON(v interface{}) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteJSON(v)
}

// Close closes the connection and all subscription channels.
func (c *WSClientImpl) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.subsMu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.subsMu.Unlock()

	c.wg.Wait()
	return nil
}

func (c *WSClientImpl) readLoop() {
	defer c.wg.Done()

	delay := c.cfg.ReconnectDelay
	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			if !c.reconnecting.Swap(true) {
				go c.reconnect(delay)
			}
			delay *= 2
			if delay > c.cfg.MaxReconnectDelay {
				delay = c.cfg.MaxReconnectDelay
			}
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		delay = c.cfg.ReconnectDelay
		c.handleMessage(message)
	}
}

func (c *WSClientImpl) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)
	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.connect(ctx); err != nil {
		log.Warn().Err(err).Msg("websocket reconnect failed, will retry")
		return
	}

	log.Info().Str("endpoint", c.endpoint).Msg("websocket reconnected")
	c.resubscribeAll()
}

// resubscribeAll re-establishes every subscription under its new id,
// keeping the original channels.
func (c *WSClientImpl) resubscribeAll() {
	c.subsMu.Lock()
	filters := make(map[int64]LogsFilter, len(c.filters))
	for id, f := range c.filters {
		filters[id] = f
	}
	c.subsMu.Unlock()

	for oldID, filter := range filters {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		newID, err := c.subscribe(ctx, filter)
		cancel()
		if err != nil {
			log.Warn().Err(err).Strs("mentions", filter.Mentions).Msg("resubscription failed")
			continue
		}

		c.subsMu.Lock()
		ch := c.subs[oldID]
		delete(c.subs, oldID)
		delete(c.filters, oldID)
		if ch != nil {
			c.subs[newID] = ch
			c.filters[newID] = filter
		}
		c.subsMu.Unlock()
	}
}

func (c *WSClientImpl) handleMessage(message []byte) {
	var resp wsSubscribeResponse
	if err := json.Unmarshal(message, &resp); err == nil && resp.Result > 0 {
		c.subsMu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.subsMu.Unlock()
		if ok {
			select {
			case ch <- resp.Result:
			default:
			}
		}
		return
	}

	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "logsNotification" && notif.Params != nil {
		c.dispatch(&notif)
		return
	}

	var errResp struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(message, &errResp); err == nil && errResp.Error != nil {
		log.Warn().Int("code", errResp.Error.Code).Str("message", errResp.Error.Message).Msg("websocket error response")
	}
}

func (c *WSClientImpl) dispatch(notif *wsNotification) {
	value := notif.Params.Result.Value
	out := LogNotification{
		Signature: value.Signature,
		Logs:      value.Logs,
		Err:       value.Err,
	}
	if notif.Params.Result.Context != nil {
		out.Slot = notif.Params.Result.Context.Slot
	}

	c.subsMu.Lock()
	ch, ok := c.subs[notif.Params.Subscription]
	c.subsMu.Unlock()
	if !ok {
		return
	}

	// Block rather than drop; the buffer absorbs bursts.
	select {
	case ch <- out:
	case <-c.done:
	}
}

func (c *WSClientImpl) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					log.Debug().Err(err).Msg("websocket ping failed")
				}
			}
			c.connMu.Unlock()
		}
	}
}

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsSubscribeResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Result  int64  `json:"result"`
}

type wsNotification struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  *wsParams `json:"params"`
}

type wsParams struct {
	Subscription int64    `json:"subscription"`
	Result       wsResult `json:"result"`
}

type wsResult struct {
	Context *wsContext `json:"context"`
	Value   wsValue    `json:"value"`
}

type wsContext struct {
	Slot int64 `json:"slot"`
}

type wsValue struct {
	Signature string      `json:"signature"`
	Logs      []string    `json:"logs"`
	Err       interface{} `json:"err"`
}
