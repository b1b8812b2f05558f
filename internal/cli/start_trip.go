package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xeno347/supervisor-final/internal/harvest"
)

// StartTripCmd returns the start-trip command
func StartTripCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "start-trip <order_id> <card_number|scan_payload>",
		Short: "Start a trip for an active order with a scanned tipper card",
		Long: `Start a trip for an active order.

The second argument is either the card number or the raw QR payload read from
the tipper card; JSON payloads carrying card_number are unpacked.

Examples:
  supervisor start-trip H1 TC-9
  supervisor start-trip H1 '{"card_number":"TC-9"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			ctx := cmd.Context()
			ctrl := harvest.NewController(env.Fetcher, nil)

			if _, err := ctrl.Refresh(ctx); err != nil {
				renderFailure(w, loadFailedTitle, err)
				return err
			}

			resp, err := ctrl.StartTrip(ctx, args[0], harvest.CardNumberFromScan(args[1]))
			if err != nil {
				renderFailure(w, startFailedTitle, err)
				return err
			}

			fmt.Fprintln(w, color.New(color.FgGreen).Sprint("Trip Started"))
			if resp.Message != "" {
				fmt.Fprintf(w, "  %s\n", resp.Message)
			}
			return nil
		},
	}
}
