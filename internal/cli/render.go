package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/notify"
	"github.com/xeno347/supervisor-final/internal/types"
)

const (
	loadFailedTitle  = "Failed to load harvest orders"
	startFailedTitle = "Failed to start trip"
	inactiveHint     = "Only Active orders (with tipper card number) can be scanned."
)

func statusColor(status string) *color.Color {
	switch status {
	case types.StatusLabelCompleted:
		return color.New(color.FgGreen)
	case types.StatusLabelInProgress:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgYellow)
	}
}

func renderOrders(w io.Writer, orders []types.OrderView) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No harvest orders.")
		return
	}

	for _, o := range orders {
		marker := color.New(color.Faint).Sprint("○")
		active := color.New(color.Faint).Sprint("Inactive")
		if o.Active {
			marker = color.New(color.FgGreen).Sprint("●")
			active = color.New(color.FgGreen).Sprint("Active")
		}

		fmt.Fprintf(w, "%s %s  %s • %s\n", marker, color.New(color.Bold).Sprint(o.OrderNo), o.FieldName, o.Crop)
		fmt.Fprintf(w, "    Area: %s   Date: %s   [%s] %s\n",
			o.Quantity, o.ScheduledDate, statusColor(o.Status).Sprint(o.Status), active)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Faint).Sprint(inactiveHint))
}

func renderTripSheet(w io.Writer, orderNo string, rows []types.TripRow, total float64) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Trip Sheet"))
	if orderNo != "" {
		fmt.Fprintf(w, "Order: %s\n", orderNo)
	}

	fmt.Fprintf(w, "%-10s %10s %9s %7s\n", "Trip no.", "NW (ton)", "Moist %", "FM %")
	if len(rows) == 0 {
		fmt.Fprintln(w, color.New(color.Faint).Sprint("No trip sheet data."))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s %10.2f %9.1f %7.1f\n", r.TripNo, r.NetWeightTon, r.MoisturePercent, r.ForeignMaterialPercent)
	}
	fmt.Fprintf(w, "%-10s %10s\n", color.New(color.Bold).Sprint("Total"), fmt.Sprintf("%.2f", total))
}

// renderFailure prints a failure title with the error's user-facing detail.
func renderFailure(w io.Writer, title string, err error) {
	fmt.Fprintln(w, color.New(color.FgRed, color.Bold).Sprint(title))
	fmt.Fprintf(w, "  %s\n", apperr.UserMessage(err))
}

func renderToast(w io.Writer, m notify.Message) {
	var icon string
	switch m.Level {
	case notify.LevelSuccess:
		icon = color.New(color.FgGreen).Sprint("✓")
	case notify.LevelError:
		icon = color.New(color.FgRed).Sprint("✗")
	default:
		icon = color.New(color.FgCyan).Sprint("ℹ")
	}
	fmt.Fprintf(w, "%s %s\n", icon, m.Text)
	if m.Detail != "" {
		fmt.Fprintf(w, "  %s\n", m.Detail)
	}
}
