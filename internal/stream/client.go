package stream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xeno347/supervisor-final/internal/interfaces"
	"github.com/xeno347/supervisor-final/internal/logger"
)

// State is the connection state of the stream client.
type State string

const (
	StateConnecting     State = "connecting"
	StateOpen           State = "open"
	StateClosedRetrying State = "closed-retrying"
	// StateStopped is terminal; reached only through Close.
	StateStopped State = "stopped"
)

// DefaultReconnectDelay is the fixed wait between connection attempts.
const DefaultReconnectDelay = 2 * time.Second

var (
	ErrAlreadyStarted = errors.New("stream: client already started")
	ErrClosed         = errors.New("stream: client closed")
)

// Client keeps a best-effort connection to the harvest stream. It reconnects
// after a fixed delay, forever, until Close is called.
type Client struct {
	url            string
	dialer         Dialer
	identity       interfaces.IdentityProvider
	sink           Sink
	reconnectDelay time.Duration
	onState        func(State)

	closed   atomic.Bool
	started  atomic.Bool
	attempts atomic.Int64

	mu        sync.Mutex
	state     State
	conn      Conn
	cancel    context.CancelFunc
	stopWatch func() bool
	done      chan struct{}
	wg        sync.WaitGroup
}

type Option func(*Client)

func WithDialer(d Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithIdentity sets the cached supervisor identity used to filter events.
func WithIdentity(p interfaces.IdentityProvider) Option {
	return func(c *Client) {
		c.identity = p
	}
}

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.reconnectDelay = d
		}
	}
}

// WithStateHook is called after every state change, outside the client's lock.
func WithStateHook(fn func(State)) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

func NewClient(url string, sink Sink, opts ...Option) *Client {
	c := &Client{
		url:            url,
		dialer:         WebsocketDialer{},
		sink:           sink,
		reconnectDelay: DefaultReconnectDelay,
		state:          StateConnecting,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the connection loop. Cancelling ctx has the same effect as Close.
func (c *Client) Start(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	logger.Info(ctx, "Starting harvest stream", "url", c.url, "reconnect_delay", c.reconnectDelay)

	// Registered before the watcher so a Close from an already cancelled ctx
	// still waits for the loop.
	c.wg.Add(1)
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.stopWatch = context.AfterFunc(ctx, func() { c.Close() })
	c.mu.Unlock()

	go c.run(runCtx)
	return nil
}

// Close tears the client down: no further connection attempts are made, a
// pending retry is abandoned and the open handle is closed. It waits for the
// loop to exit and must not be called from the Sink.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		c.wg.Wait()
		return
	}

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	cancel := c.cancel
	stopWatch := c.stopWatch
	c.mu.Unlock()

	close(c.done)
	if cancel != nil {
		cancel()
	}
	if stopWatch != nil {
		stopWatch()
	}
	if conn != nil {
		_ = conn.Close()
	}

	c.wg.Wait()
	c.setState(StateStopped)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns how many connection attempts have been made.
func (c *Client) Attempts() int64 {
	return c.attempts.Load()
}

func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()

	for attempt := 1; ; attempt++ {
		if c.closed.Load() {
			return
		}

		c.connectAndRead(ctx)

		if c.closed.Load() {
			return
		}

		c.setState(StateClosedRetrying)
		logger.Debug(ctx, "Harvest stream reconnecting", "attempt", attempt, "delay", c.reconnectDelay)

		timer := time.NewTimer(c.reconnectDelay)
		select {
		case <-timer.C:
		case <-c.done:
			timer.Stop()
			return
		}
	}
}

// connectAndRead dials once and reads until the transport fails.
func (c *Client) connectAndRead(ctx context.Context) {
	c.setState(StateConnecting)
	c.attempts.Add(1)

	conn, err := c.dialer.Dial(ctx, c.url)
	if err != nil {
		logger.Debug(ctx, "Harvest stream dial failed", "url", c.url, "error", err)
		return
	}

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.setState(StateOpen)
	logger.Info(ctx, "Harvest stream connected", "url", c.url)

	// The identity is read once per connection.
	var supervisorID string
	if c.identity != nil {
		supervisorID, _ = c.identity.SupervisorID(ctx)
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				logger.Warn(ctx, "Harvest stream closed", "error", err)
			}
			break
		}
		if c.closed.Load() {
			break
		}
		c.handleFrame(ctx, frame, supervisorID)
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	if c.state == StateStopped || c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	hook := c.onState
	c.mu.Unlock()

	if hook != nil {
		hook(s)
	}
}
