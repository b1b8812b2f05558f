package interfaces

import (
	"context"

	"github.com/xeno347/supervisor-final/internal/types"
)

// OrderFetcher loads the harvest order snapshot.
type OrderFetcher interface {
	Fetch(ctx context.Context) ([]types.OrderView, error)
	StartTrip(ctx context.Context, orderID, cardNumber string) (types.StartTripResponse, error)
}

// TripNotifier fires the user-visible side effects of an accepted live trip.
// Implementations never fail.
type TripNotifier interface {
	NotifyTipperUnloaded(ctx context.Context)
}
