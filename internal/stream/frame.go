package stream

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/logger"
	"github.com/xeno347/supervisor-final/internal/tripsheet"
	"github.com/xeno347/supervisor-final/internal/types"
)

// Sink receives accepted live trips.
type Sink interface {
	OnTripUnloaded(ctx context.Context, orderID string, row types.TripRow)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, orderID string, row types.TripRow)

func (f SinkFunc) OnTripUnloaded(ctx context.Context, orderID string, row types.TripRow) {
	f(ctx, orderID, row)
}

// Decision explains what happened to a frame. Used for logging and tests.
type Decision string

const (
	Accepted          Decision = "accepted"
	DroppedMalformed  Decision = "malformed"
	DroppedOtherEvent Decision = "other_event"
	DroppedNoData     Decision = "no_data"
	DroppedSupervisor Decision = "supervisor_mismatch"
	DroppedMissingID  Decision = "missing_order_id"
)

type frameResult struct {
	decision Decision
	orderID  string
	row      types.TripRow
}

// parseFrame applies the acceptance rules to one inbound frame. supervisorID
// is the cached identity; empty means no filtering.
func parseFrame(frame []byte, supervisorID string) frameResult {
	var env types.StreamEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return frameResult{decision: DroppedMalformed}
	}
	if env.Event != types.EventTipperUnloaded {
		return frameResult{decision: DroppedOtherEvent}
	}

	var payload any
	if len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &payload)
	}
	if !truthy(payload) {
		return frameResult{decision: DroppedNoData}
	}
	var data types.TipperUnloadedData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		// A payload that is not an object carries no order id.
		return frameResult{decision: DroppedMissingID}
	}

	// A remote id that is not a string never matches the cached one.
	if supervisorID != "" && truthy(data.SupervisorID) {
		if remote, ok := data.SupervisorID.(string); !ok || remote != supervisorID {
			return frameResult{decision: DroppedSupervisor}
		}
	}
	orderID, ok := liveOrderID(data.OrderID)
	if !ok {
		return frameResult{decision: DroppedMissingID}
	}

	return frameResult{
		decision: Accepted,
		orderID:  orderID,
		row:      tripsheet.NormalizeLive(data),
	}
}

// handleFrame parses a frame and hands accepted rows to the sink.
func (c *Client) handleFrame(ctx context.Context, frame []byte, supervisorID string) Decision {
	res := parseFrame(frame, supervisorID)
	switch res.decision {
	case Accepted:
	case DroppedMalformed:
		logger.Debug(ctx, "Dropping stream frame", "reason", apperr.Parse("malformed frame", nil), "size", len(frame))
		return res.decision
	default:
		logger.Debug(ctx, "Ignoring stream frame", "reason", string(res.decision))
		return res.decision
	}

	if c.closed.Load() {
		return res.decision
	}
	if c.sink != nil {
		c.sink.OnTripUnloaded(ctx, res.orderID, res.row)
	}
	return res.decision
}

// truthy reports whether a decoded JSON value is set: not null, false, zero or "".
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// liveOrderID accepts string and numeric order ids.
func liveOrderID(v any) (string, bool) {
	if !truthy(v) {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
