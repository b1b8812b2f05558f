package cli

import (
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xeno347/supervisor-final/internal/harvest"
	"github.com/xeno347/supervisor-final/internal/notify"
	"github.com/xeno347/supervisor-final/internal/stream"
	"github.com/xeno347/supervisor-final/internal/tripsheet"
	"github.com/xeno347/supervisor-final/internal/types"
)

// WatchCmd returns the watch command
func WatchCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [order_id]",
		Short: "Follow live tipper unload events",
		Long: `Load the harvest orders and follow the live harvest stream.

Every accepted unload event shows a "tripper has been unloaded" message and
the updated trip sheet of its order. With an order id, only that order's
trip sheet is printed. Press Ctrl-C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var watched string
			if len(args) == 1 {
				watched = args[0]
			}
			w := &syncWriter{w: cmd.OutOrStdout()}
			cfg := env.Config

			inApp := notify.NewRecorder(0, func(m notify.Message) { renderToast(w, m) })
			dispatchOpts := []notify.Option{notify.WithChannelID(cfg.Notifications.ChannelID)}
			if env.Push != nil {
				dispatchOpts = append(dispatchOpts, notify.WithNative(env.Push))
			}
			dispatcher := notify.NewDispatcher(inApp, dispatchOpts...)

			var (
				ctrl      *harvest.Controller
				firstLoad sync.Once
			)
			ctrl = harvest.NewController(env.Fetcher, dispatcher,
				harvest.WithLedger(tripsheet.NewLedger(tripsheet.WithMaxRowsPerOrder(cfg.Ledger.MaxRowsPerOrder))),
				harvest.WithJournal(env.Journal),
				harvest.WithPollInterval(cfg.PollInterval()),
				harvest.WithStream(stream.URL(cfg.BaseURL, cfg.Stream.Path),
					stream.WithIdentity(env.Identity),
					stream.WithReconnectDelay(cfg.ReconnectDelay()),
				),
				harvest.WithRefreshHook(func(orders []types.OrderView, err error) {
					if err != nil {
						renderFailure(w, loadFailedTitle, err)
						return
					}
					firstLoad.Do(func() {
						fmt.Fprintf(w, "%s %d harvest orders loaded, watching for unload events\n",
							color.New(color.FgCyan).Sprint("ℹ"), len(orders))
						if watched != "" {
							printTripSheet(w, ctrl, watched)
						}
					})
				}),
				harvest.WithTripHook(func(orderID string, _ types.TripRow) {
					if watched != "" && orderID != watched {
						return
					}
					printTripSheet(w, ctrl, orderID)
				}),
			)

			err := ctrl.Run(cmd.Context())
			dispatcher.Wait()
			return err
		},
	}
}

func printTripSheet(w *syncWriter, ctrl *harvest.Controller, orderID string) {
	orderNo := orderID
	if o, ok := ctrl.Order(orderID); ok {
		orderNo = o.OrderNo
	}
	rows := ctrl.Rows(orderID)
	total := tripsheet.Sum(rows)

	w.mu.Lock()
	defer w.mu.Unlock()
	renderTripSheet(w.w, orderNo, rows, total)
}
