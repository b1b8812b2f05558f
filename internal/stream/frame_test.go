package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xeno347/supervisor-final/internal/types"
)

func TestParseFrameDecisions(t *testing.T) {
	tests := []struct {
		name       string
		frame      string
		supervisor string
		want       Decision
		wantOrder  string
	}{
		{name: "not json", frame: `{"event":`, want: DroppedMalformed},
		{name: "other event", frame: `{"event":"PING","data":{"order_id":"H1"}}`, want: DroppedOtherEvent},
		{name: "no event", frame: `{"data":{"order_id":"H1"}}`, want: DroppedOtherEvent},
		{name: "data absent", frame: `{"event":"TIPPER_UNLOADED"}`, want: DroppedNoData},
		{name: "data null", frame: `{"event":"TIPPER_UNLOADED","data":null}`, want: DroppedNoData},
		{name: "data empty string", frame: `{"event":"TIPPER_UNLOADED","data":""}`, want: DroppedNoData},
		{name: "data not an object", frame: `{"event":"TIPPER_UNLOADED","data":"H1"}`, want: DroppedMissingID},
		{name: "order id absent", frame: `{"event":"TIPPER_UNLOADED","data":{"net_weight":3}}`, want: DroppedMissingID},
		{name: "order id empty", frame: `{"event":"TIPPER_UNLOADED","data":{"order_id":""}}`, want: DroppedMissingID},
		{name: "order id zero", frame: `{"event":"TIPPER_UNLOADED","data":{"order_id":0}}`, want: DroppedMissingID},
		{name: "order id object", frame: `{"event":"TIPPER_UNLOADED","data":{"order_id":{"id":"H1"}}}`, want: DroppedMissingID},
		{name: "accepted", frame: `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1"}}`, want: Accepted, wantOrder: "H1"},
		{name: "numeric order id", frame: `{"event":"TIPPER_UNLOADED","data":{"order_id":101}}`, want: Accepted, wantOrder: "101"},
		{
			name:      "numeric supervisor id without cached identity",
			frame:     `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":42}}`,
			want:      Accepted,
			wantOrder: "H1",
		},
		{
			name:       "numeric supervisor id with cached identity",
			frame:      `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":42}}`,
			supervisor: "42",
			want:       DroppedSupervisor,
		},
		{
			name:      "mismatch without cached identity",
			frame:     `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":"S2"}}`,
			want:      Accepted,
			wantOrder: "H1",
		},
		{
			name:       "mismatch with cached identity",
			frame:      `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":"S2"}}`,
			supervisor: "S1",
			want:       DroppedSupervisor,
		},
		{
			name:       "matching supervisor",
			frame:      `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":"S1"}}`,
			supervisor: "S1",
			want:       Accepted,
			wantOrder:  "H1",
		},
		{
			name:       "remote id absent",
			frame:      `{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":""}}`,
			supervisor: "S1",
			want:       Accepted,
			wantOrder:  "H1",
		},
		{
			name:       "mismatch checked before order id",
			frame:      `{"event":"TIPPER_UNLOADED","data":{"supervisor_id":"S2"}}`,
			supervisor: "S1",
			want:       DroppedSupervisor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFrame([]byte(tt.frame), tt.supervisor)
			assert.Equal(t, tt.want, got.decision)
			assert.Equal(t, tt.wantOrder, got.orderID)
		})
	}
}

func TestParseFrameKeepsPayloadValuesWithLooseIDs(t *testing.T) {
	got := parseFrame([]byte(`{"event":"TIPPER_UNLOADED","data":{"order_id":101,"supervisor_id":42,"net_weight":"3","moisture_level":10,"trip_sheet_length":2}}`), "")
	assert.Equal(t, Accepted, got.decision)
	assert.Equal(t, types.TripRow{TripNo: "2", NetWeightTon: 3, MoisturePercent: 10}, got.row)
}

func TestHandleFrameOnlyAcceptedReachSink(t *testing.T) {
	sink := newSpySink()
	c := NewClient("ws://test/ws/harvest", sink)

	for _, frame := range []string{
		`{"event":"TIPPER_UNLOADED"}`,
		`{"event":"TIPPER_UNLOADED","data":null}`,
		`{"event":"TIPPER_UNLOADED","data":{"net_weight":3}}`,
		`{"event":"TIPPER_UNLOADED","data":{"order_id":"H1","supervisor_id":"S2"}}`,
	} {
		c.handleFrame(context.Background(), []byte(frame), "S1")
	}
	assert.Equal(t, 0, sink.count())

	assert.Equal(t, Accepted, c.handleFrame(context.Background(), []byte(`{"event":"TIPPER_UNLOADED","data":{"order_id":7}}`), "S1"))
	assert.Len(t, sink.rows["7"], 1)
}
