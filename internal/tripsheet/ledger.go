package tripsheet

import (
	"sort"
	"sync"

	"github.com/xeno347/supervisor-final/internal/types"
)

// Ledger holds live trip rows per order id. It is append-only; rows survive
// order refreshes and are dropped only by Reset.
type Ledger struct {
	mu          sync.RWMutex
	rows        map[string][]types.TripRow
	maxPerOrder int
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithMaxRowsPerOrder keeps only the newest n rows per order. 0 means unbounded.
func WithMaxRowsPerOrder(n int) LedgerOption {
	return func(l *Ledger) {
		if n > 0 {
			l.maxPerOrder = n
		}
	}
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{rows: make(map[string][]types.TripRow)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds a row under orderID.
func (l *Ledger) Append(orderID string, row types.TripRow) {
	l.mu.Lock()
	defer l.mu.Unlock()

	orderRows := append(l.rows[orderID], row)
	if l.maxPerOrder > 0 && len(orderRows) > l.maxPerOrder {
		orderRows = append([]types.TripRow(nil), orderRows[len(orderRows)-l.maxPerOrder:]...)
	}
	l.rows[orderID] = orderRows
}

// Rows returns a copy of the live rows for orderID in arrival order.
func (l *Ledger) Rows(orderID string) []types.TripRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	orderRows := l.rows[orderID]
	if len(orderRows) == 0 {
		return nil
	}
	out := make([]types.TripRow, len(orderRows))
	copy(out, orderRows)
	return out
}

// Len returns the number of live rows held for orderID.
func (l *Ledger) Len(orderID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows[orderID])
}

// OrderIDs returns the ids that have live rows, sorted.
func (l *Ledger) OrderIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.rows))
	for id := range l.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset drops every row. Called on owner teardown only.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = make(map[string][]types.TripRow)
}
