package harvest

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/xeno347/supervisor-final/internal/api"
	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/interfaces"
	"github.com/xeno347/supervisor-final/internal/types"
)

const (
	OrdersPath    = "/Harvest_management/get_harvest_orders"
	StartTripPath = "/Harvest_management/start_trip"
)

// View-model defaults for missing order fields.
const (
	DefaultFieldName = "Unknown Block"
	DefaultCrop      = "Harvest"
	Placeholder      = "—"
)

// Fetcher loads harvest orders from the farm backend. It never retries.
type Fetcher struct {
	client   *api.Client
	identity interfaces.IdentityProvider
}

var _ interfaces.OrderFetcher = (*Fetcher)(nil)

// NewFetcher builds a fetcher. The client must carry the backend base URL.
// A nil identity disables supervisor filtering.
func NewFetcher(client *api.Client, identity interfaces.IdentityProvider) *Fetcher {
	return &Fetcher{client: client, identity: identity}
}

// Fetch returns the orders visible to the cached supervisor.
func (f *Fetcher) Fetch(ctx context.Context) ([]types.OrderView, error) {
	resp, err := f.client.GET(ctx, OrdersPath)
	if err != nil {
		return nil, withOp(err, "fetch harvest orders")
	}

	var body types.HarvestOrdersResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, withOp(err, "fetch harvest orders")
	}

	var supervisorID string
	if f.identity != nil {
		supervisorID, _ = f.identity.SupervisorID(ctx)
	}

	orders := FilterBySupervisor(body.HarvestOrders, supervisorID)
	views := make([]types.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ToView(o))
	}
	return views, nil
}

// StartTrip tells the backend a tipper card was scanned for an order.
func (f *Fetcher) StartTrip(ctx context.Context, orderID, cardNumber string) (types.StartTripResponse, error) {
	orderID = strings.TrimSpace(orderID)
	cardNumber = strings.TrimSpace(cardNumber)
	if orderID == "" {
		return types.StartTripResponse{}, apperr.Validation("order id is required").WithOp("start trip")
	}
	if cardNumber == "" {
		return types.StartTripResponse{}, apperr.Validation("card number is required").WithOp("start trip")
	}

	resp, err := f.client.POST(ctx, StartTripPath, types.StartTripRequest{OrderID: orderID, CardNumber: cardNumber})
	if err != nil {
		return types.StartTripResponse{}, withOp(err, "start trip")
	}

	var out types.StartTripResponse
	if err := resp.ParseJSON(&out); err != nil {
		return types.StartTripResponse{}, withOp(err, "start trip")
	}
	return out, nil
}

// FilterBySupervisor keeps orders assigned to supervisorID. Orders without a
// remote supervisor id are kept, and an empty supervisorID keeps everything.
func FilterBySupervisor(orders []types.Order, supervisorID string) []types.Order {
	if supervisorID == "" {
		return orders
	}
	out := make([]types.Order, 0, len(orders))
	for _, o := range orders {
		if remote, ok := o.SupervisorID(); ok && remote != supervisorID {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ToView maps a backend order onto the list view model.
func ToView(o types.Order) types.OrderView {
	v := types.OrderView{
		ID:            o.OrderID,
		OrderNo:       o.OrderID,
		FieldName:     DefaultFieldName,
		Crop:          DefaultCrop,
		Quantity:      Placeholder,
		ScheduledDate: Placeholder,
		Status:        StatusLabel(o.Status),
		Active:        o.TipperCardNumber != nil && strings.TrimSpace(*o.TipperCardNumber) != "",
		Raw:           o,
	}
	if fd := o.FarmDetails; fd != nil {
		if fd.BlockName != "" {
			v.FieldName = fd.BlockName
		}
		if fd.FarmingOption != "" {
			v.Crop = fd.FarmingOption
		}
		if fd.Area != nil {
			v.Quantity = strconv.FormatFloat(*fd.Area, 'f', -1, 64) + " acres"
		}
	}
	if date, _, _ := strings.Cut(o.CreatedAt, "T"); date != "" {
		v.ScheduledDate = date
	}
	return v
}

func StatusLabel(s types.OrderStatus) string {
	switch s {
	case types.OrderStatusCompleted:
		return types.StatusLabelCompleted
	case types.OrderStatusStarted:
		return types.StatusLabelInProgress
	default:
		return types.StatusLabelPending
	}
}

func withOp(err error, op string) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Op == "" {
		e.WithOp(op)
	}
	return err
}
