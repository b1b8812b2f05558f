package harvest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/interfaces"
	"github.com/xeno347/supervisor-final/internal/logger"
	"github.com/xeno347/supervisor-final/internal/stream"
	"github.com/xeno347/supervisor-final/internal/triplog"
	"github.com/xeno347/supervisor-final/internal/tripsheet"
	"github.com/xeno347/supervisor-final/internal/types"
)

// Controller owns the order snapshot, the live ledger and the stream client
// for one harvest screen session. Its reads are safe from any goroutine.
type Controller struct {
	fetcher  interfaces.OrderFetcher
	notifier interfaces.TripNotifier
	ledger   *tripsheet.Ledger
	recon    *tripsheet.Reconciler
	journal  *triplog.Journal

	pollInterval time.Duration
	streamURL    string
	streamOpts   []stream.Option

	onTrip    func(orderID string, row types.TripRow)
	onRefresh func(orders []types.OrderView, err error)

	mu       sync.RWMutex
	orders   []types.OrderView
	loaded   bool
	streamMu sync.Mutex
	client   *stream.Client
}

var _ stream.Sink = (*Controller)(nil)

type ControllerOption func(*Controller)

func WithLedger(l *tripsheet.Ledger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.ledger = l
		}
	}
}

func WithJournal(j *triplog.Journal) ControllerOption {
	return func(c *Controller) {
		c.journal = j
	}
}

// WithPollInterval refreshes the snapshot periodically while Run is active. 0 disables polling.
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.pollInterval = d
	}
}

// WithStream enables the live stream during Run.
func WithStream(url string, opts ...stream.Option) ControllerOption {
	return func(c *Controller) {
		c.streamURL = url
		c.streamOpts = opts
	}
}

// WithTripHook is called after each accepted live trip has been recorded.
func WithTripHook(fn func(orderID string, row types.TripRow)) ControllerOption {
	return func(c *Controller) {
		c.onTrip = fn
	}
}

// WithRefreshHook is called after every refresh attempt made by Run.
func WithRefreshHook(fn func(orders []types.OrderView, err error)) ControllerOption {
	return func(c *Controller) {
		c.onRefresh = fn
	}
}

func NewController(fetcher interfaces.OrderFetcher, notifier interfaces.TripNotifier, opts ...ControllerOption) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		notifier: notifier,
		ledger:   tripsheet.NewLedger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.recon = tripsheet.NewReconciler(c.ledger)
	return c
}

// Refresh fetches once. On success the snapshot is replaced wholesale; on
// failure the previous snapshot stays. The ledger is never touched.
func (c *Controller) Refresh(ctx context.Context) ([]types.OrderView, error) {
	orders, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.orders = orders
	c.loaded = true
	c.mu.Unlock()

	return c.Orders(), nil
}

// Orders returns a copy of the current snapshot.
func (c *Controller) Orders() []types.OrderView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]types.OrderView(nil), c.orders...)
}

// Loaded reports whether at least one refresh has succeeded.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Controller) Order(id string) (types.OrderView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.orders {
		if o.ID == id {
			return o, true
		}
	}
	return types.OrderView{}, false
}

// Rows returns the effective trip sheet for an order. Orders outside the
// snapshot contribute live rows only.
func (c *Controller) Rows(id string) []types.TripRow {
	return c.recon.Rows(c.rawOrder(id))
}

func (c *Controller) Total(id string) float64 {
	return c.recon.Total(c.rawOrder(id))
}

func (c *Controller) rawOrder(id string) types.Order {
	if o, ok := c.Order(id); ok {
		return o.Raw
	}
	return types.Order{OrderID: id}
}

// StartTrip starts a trip for an order in the snapshot. Only active orders
// can be started.
func (c *Controller) StartTrip(ctx context.Context, orderID, cardNumber string) (types.StartTripResponse, error) {
	o, ok := c.Order(orderID)
	if !ok {
		return types.StartTripResponse{}, apperr.Validation("order " + orderID + " is not in the current order list").WithOp("start trip")
	}
	if !o.Active {
		return types.StartTripResponse{}, apperr.Validation("no tipper card is allocated to order " + orderID).WithOp("start trip")
	}
	return c.fetcher.StartTrip(ctx, orderID, cardNumber)
}

// OnTripUnloaded records an accepted live trip and fires its notifications.
func (c *Controller) OnTripUnloaded(ctx context.Context, orderID string, row types.TripRow) {
	c.ledger.Append(orderID, row)
	logger.TripUnloaded(ctx, orderID, row.TripNo, row.NetWeightTon,
		"moisture_percent", row.MoisturePercent,
		"foreign_material_percent", row.ForeignMaterialPercent,
	)

	if c.journal != nil {
		if _, err := c.journal.Append(triplog.Entry{OrderID: orderID, Row: row, Source: "live"}); err != nil {
			logger.Warn(ctx, "Failed to journal live trip", "order_id", orderID, "error", err)
		}
	}

	if c.notifier != nil {
		c.notifier.NotifyTipperUnloaded(ctx)
	}
	if c.onTrip != nil {
		c.onTrip(orderID, row)
	}
}

// StreamState reports the live stream state, or "" when no stream is running.
func (c *Controller) StreamState() stream.State {
	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	if c.client == nil {
		return ""
	}
	return c.client.State()
}

// Run performs the initial refresh, polls and keeps the live stream up until
// ctx is cancelled, then tears down. Refresh failures are reported through
// the refresh hook and never stop Run.
func (c *Controller) Run(ctx context.Context) error {
	defer c.Teardown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.refreshAndReport(gctx)
		return nil
	})

	if c.pollInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(c.pollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					c.refreshAndReport(gctx)
				}
			}
		})
	}

	if c.streamURL != "" {
		client := stream.NewClient(c.streamURL, c, c.streamOpts...)
		c.streamMu.Lock()
		c.client = client
		c.streamMu.Unlock()

		g.Go(func() error {
			if err := client.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()
			client.Close()
			return nil
		})
	}

	return g.Wait()
}

func (c *Controller) refreshAndReport(ctx context.Context) {
	orders, err := c.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.ErrorWithErr(ctx, "Failed to load harvest orders", err, "kind", apperr.KindOf(err).String())
	}
	if c.onRefresh != nil {
		c.onRefresh(orders, err)
	}
}

// Teardown closes the stream and discards every live row.
func (c *Controller) Teardown() {
	c.streamMu.Lock()
	client := c.client
	c.streamMu.Unlock()
	if client != nil {
		client.Close()
	}
	c.ledger.Reset()
}
