package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeno347/supervisor-final/internal/harvest"
)

// OrdersCmd returns the orders command
func OrdersCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List harvest orders assigned to the cached supervisor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			ctrl := harvest.NewController(env.Fetcher, nil)

			orders, err := ctrl.Refresh(cmd.Context())
			if err != nil {
				renderFailure(w, loadFailedTitle, err)
				return err
			}
			renderOrders(w, orders)
			return nil
		},
	}
}

// TripsCmd returns the trips command
func TripsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "trips <order_id>",
		Short: "Show the trip sheet and total net weight of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			ctrl := harvest.NewController(env.Fetcher, nil)

			if _, err := ctrl.Refresh(cmd.Context()); err != nil {
				renderFailure(w, loadFailedTitle, err)
				return err
			}

			order, ok := ctrl.Order(args[0])
			if !ok {
				return fmt.Errorf("order %s not found", args[0])
			}
			renderTripSheet(w, order.OrderNo, ctrl.Rows(order.ID), ctrl.Total(order.ID))
			return nil
		},
	}
}
