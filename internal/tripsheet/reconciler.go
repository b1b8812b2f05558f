package tripsheet

import "github.com/xeno347/supervisor-final/internal/types"

// Reconciler derives an order's effective trip sheet from its embedded history
// and the live ledger. It only reads the ledger.
type Reconciler struct {
	ledger *Ledger
}

func NewReconciler(ledger *Ledger) *Reconciler {
	return &Reconciler{ledger: ledger}
}

// Rows returns historical rows followed by live rows for the order. History is
// re-normalized on every call.
func (r *Reconciler) Rows(order types.Order) []types.TripRow {
	rows := NormalizeHistorical(order.TripSheet)
	if r.ledger != nil {
		rows = append(rows, r.ledger.Rows(order.OrderID)...)
	}
	return rows
}

// Total is the net weight sum of Rows(order).
func (r *Reconciler) Total(order types.Order) float64 {
	return Sum(r.Rows(order))
}

// Sum adds net weights, counting non-finite values as 0.
func Sum(rows []types.TripRow) float64 {
	var total float64
	for _, row := range rows {
		total += finiteOrZero(row.NetWeightTon)
	}
	return total
}
