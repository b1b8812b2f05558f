package harvest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xeno347/supervisor-final/internal/api"
	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/session"
	"github.com/xeno347/supervisor-final/internal/types"
)

const ordersJSON = `{"harvest_orders":[
  {"order_id":"H1","created_at":"2026-02-10T08:30:00Z","status":"started","tipper_card_number":" TC-9 ",
   "supervisor_details":{"supervisor_id":"S1"},
   "farm_details":{"block_name":"North 4","farming_option":"Paddy","area":2.5}},
  {"order_id":"H2","status":"pending","tipper_card_number":"   ",
   "supervisor_details":{"supervisor_id":"S2"}},
  {"order_id":"H3","status":"completed","tipper_card_number":null}
]}`

func ordersServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api"+OrdersPath || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(srv *httptest.Server, identity string) *Fetcher {
	return NewFetcher(api.NewClient(api.WithBaseURL(srv.URL+"/api/")), session.Static(identity))
}

func ids(views []types.OrderView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestFetchFiltersBySupervisor(t *testing.T) {
	srv := ordersServer(t, http.StatusOK, ordersJSON)

	tests := []struct {
		name     string
		identity string
		want     []string
	}{
		{name: "no cached identity", want: []string{"H1", "H2", "H3"}},
		{name: "S1 keeps own and unassigned", identity: "S1", want: []string{"H1", "H3"}},
		{name: "S2 keeps own and unassigned", identity: "S2", want: []string{"H2", "H3"}},
		{name: "unknown id keeps unassigned", identity: "S9", want: []string{"H3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := newTestFetcher(srv, tt.identity).Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(views))
		})
	}
}

func TestFetchBuildsViews(t *testing.T) {
	srv := ordersServer(t, http.StatusOK, ordersJSON)
	views, err := newTestFetcher(srv, "").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	h1 := views[0]
	assert.Equal(t, "H1", h1.OrderNo)
	assert.Equal(t, "North 4", h1.FieldName)
	assert.Equal(t, "Paddy", h1.Crop)
	assert.Equal(t, "2.5 acres", h1.Quantity)
	assert.Equal(t, "2026-02-10", h1.ScheduledDate)
	assert.Equal(t, "In Progress", h1.Status)
	assert.True(t, h1.Active)

	h2 := views[1]
	assert.False(t, h2.Active, "whitespace card is not allocated")
	assert.Equal(t, "Pending", h2.Status)
	assert.Equal(t, DefaultFieldName, h2.FieldName)
	assert.Equal(t, DefaultCrop, h2.Crop)
	assert.Equal(t, Placeholder, h2.Quantity)
	assert.Equal(t, Placeholder, h2.ScheduledDate)

	assert.False(t, views[2].Active)
	assert.Equal(t, "Completed", views[2].Status)
}

func TestFetchMissingArrayIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, ``, `{"harvest_orders":null}`} {
		views, err := newTestFetcher(ordersServer(t, http.StatusOK, body), "").Fetch(context.Background())
		require.NoError(t, err, body)
		assert.Empty(t, views, body)
	}
}

func TestFetchErrors(t *testing.T) {
	t.Run("server status", func(t *testing.T) {
		_, err := newTestFetcher(ordersServer(t, http.StatusInternalServerError, `{"detail":"db down"}`), "").Fetch(context.Background())
		require.Error(t, err)
		assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
		assert.Equal(t, "db down", apperr.UserMessage(err))
		assert.Contains(t, err.Error(), "fetch harvest orders")
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := newTestFetcher(ordersServer(t, http.StatusOK, `[not json`), "").Fetch(context.Background())
		assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
	})

	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		_, err := newTestFetcher(srv, "").Fetch(context.Background())
		assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
	})
}

func TestStartTrip(t *testing.T) {
	var got types.StartTripRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api"+StartTripPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &got)
		w.Write([]byte(`{"success":true,"message":"Trip started"}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "")
	resp, err := f.StartTrip(context.Background(), "H1", " TC-9 ")
	require.NoError(t, err)
	assert.Equal(t, types.StartTripRequest{OrderID: "H1", CardNumber: "TC-9"}, got)
	require.NotNil(t, resp.Success)
	assert.True(t, *resp.Success)
	assert.Equal(t, "Trip started", resp.Message)

	_, err = f.StartTrip(context.Background(), "H1", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.StartTrip(context.Background(), " ", "TC-9")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestToViewIntegralArea(t *testing.T) {
	area := 3.0
	v := ToView(types.Order{OrderID: "H9", CreatedAt: "2026-01-05", FarmDetails: &types.FarmDetails{Area: &area}})
	assert.Equal(t, "3 acres", v.Quantity)
	assert.Equal(t, "2026-01-05", v.ScheduledDate)
}

const mixedOrdersJSON = `{"harvest_orders":[
  {"order_id":"H1","status":"started","tipper_card_number":"TC-9",
   "supervisor_details":{"supervisor_id":"S1"},
   "farm_details":{"block_name":"North 4","area":2.5}},
  {"order_id":"H2","status":"started","tipper_card_number":12345,
   "supervisor_details":{"supervisor_id":7},
   "farm_details":{"block_name":"South 1","area":"2.5"}},
  {"order_id":303,"status":5,"created_at":false,"tipper_card_number":{"no":"TC-1"},
   "farm_details":{"block_name":9,"farming_option":"Maize"}}
]}`

func TestFetchToleratesMixedFieldTypes(t *testing.T) {
	srv := ordersServer(t, http.StatusOK, mixedOrdersJSON)

	views, err := newTestFetcher(srv, "S1").Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"H1", "H2", "303"}, ids(views), "non-string remote ids are kept")

	assert.True(t, views[0].Active)
	assert.Equal(t, "2.5 acres", views[0].Quantity)

	h2 := views[1]
	assert.False(t, h2.Active, "numeric card is not an allocated card")
	assert.Equal(t, "South 1", h2.FieldName)
	assert.Equal(t, Placeholder, h2.Quantity, "string area is not shown")

	odd := views[2]
	assert.False(t, odd.Active)
	assert.Equal(t, DefaultFieldName, odd.FieldName)
	assert.Equal(t, "Maize", odd.Crop)
	assert.Equal(t, "Pending", odd.Status)
	assert.Equal(t, Placeholder, odd.ScheduledDate)
}
