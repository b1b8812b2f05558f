package harvestobs

import (
	"context"

	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/interfaces"
	"github.com/xeno347/supervisor-final/internal/logger"
	"github.com/xeno347/supervisor-final/internal/trace"
	"github.com/xeno347/supervisor-final/internal/types"
)

// observableFetcher wraps an OrderFetcher with logging and tracing
type observableFetcher struct {
	fetcher interfaces.OrderFetcher
}

// Compile-time interface check
var _ interfaces.OrderFetcher = (*observableFetcher)(nil)

// Wrap wraps a fetcher with observability middleware
func Wrap(fetcher interfaces.OrderFetcher) interfaces.OrderFetcher {
	return &observableFetcher{fetcher: fetcher}
}

// Fetch loads the order snapshot with observability
func (of *observableFetcher) Fetch(ctx context.Context) ([]types.OrderView, error) {
	ctx, span := trace.StartSpan(ctx, "harvest.Fetch")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching harvest orders")

	orders, err := of.fetcher.Fetch(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch harvest orders", err, "kind", apperr.KindOf(err).String())
		return nil, err
	}

	active := 0
	for _, o := range orders {
		if o.Active {
			active++
		}
	}
	logger.InfoSkip(ctx, 1, "Harvest orders fetched", "count", len(orders), "active", active)
	return orders, nil
}

// StartTrip starts a trip with observability
func (of *observableFetcher) StartTrip(ctx context.Context, orderID, cardNumber string) (types.StartTripResponse, error) {
	ctx, span := trace.StartSpan(ctx, "harvest.StartTrip")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting trip", "order_id", orderID)

	resp, err := of.fetcher.StartTrip(ctx, orderID, cardNumber)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to start trip", err, "order_id", orderID)
		return types.StartTripResponse{}, err
	}

	logger.InfoSkip(ctx, 1, "Trip started", "order_id", orderID, "message", resp.Message)
	return resp, nil
}
