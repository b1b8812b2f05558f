package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/cli"
	"github.com/xeno347/supervisor-final/internal/logger"
	"github.com/xeno347/supervisor-final/internal/trace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := &cli.Env{}
	cleanup := func() {}
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "supervisor",
		Short: "Harvest supervisor client: orders, trip sheets and live unload events",
		Long: `supervisor talks to the farm backend on behalf of a harvest supervisor.

It lists the supervisor's harvest orders, shows each order's trip sheet
(history plus trips unloaded while watching) and follows the live harvest
stream.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeSystem(); err != nil {
				return err
			}
			var err error
			cleanup, err = wireEnv(cmd.Context(), env, configPath)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")

	rootCmd.AddCommand(cli.OrdersCmd(env))
	rootCmd.AddCommand(cli.TripsCmd(env))
	rootCmd.AddCommand(cli.WatchCmd(env))
	rootCmd.AddCommand(cli.StartTripCmd(env))
	rootCmd.AddCommand(cli.LoginCacheCmd(env))

	err := rootCmd.ExecuteContext(ctx)

	cleanup()
	_ = trace.Shutdown(context.Background())
	_ = logger.Sync()

	if err != nil {
		// Typed errors were already rendered by the command.
		if apperr.KindOf(err) == apperr.KindUnknown {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
