package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xeno347/supervisor-final/internal/session"
)

// LoginCacheCmd returns the login-cache command
func LoginCacheCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login-cache",
		Short: "Manage the cached supervisor identity",
		Long: `Manage the supervisor identity cached by the last login.

Harvest orders and live events are filtered by this id. Without one, every
order and event is shown.`,
	}

	setCmd := &cobra.Command{
		Use:   "set <supervisor_id>",
		Short: "Cache a supervisor id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.Session == nil {
				return errNoSession
			}
			ctx := cmd.Context()
			if err := env.Session.Set(ctx, session.KeySupervisorID, args[0]); err != nil {
				return err
			}
			if name, _ := cmd.Flags().GetString("name"); name != "" {
				if err := env.Session.Set(ctx, session.KeySupervisorName, name); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s cached supervisor %s\n", color.New(color.FgGreen).Sprint("✓"), args[0])
			return nil
		},
	}
	setCmd.Flags().String("name", "", "supervisor display name")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective supervisor id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			ctx := cmd.Context()

			if env.Identity != nil {
				if id, ok := env.Identity.SupervisorID(ctx); ok {
					fmt.Fprintf(w, "supervisor_id: %s\n", id)
				} else {
					fmt.Fprintln(w, color.New(color.FgYellow).Sprint("no supervisor cached (orders are not filtered)"))
				}
			}
			if env.Session != nil {
				if name, err := env.Session.Get(ctx, session.KeySupervisorName); err == nil {
					fmt.Fprintf(w, "supervisor_name: %s\n", name)
				}
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the cached supervisor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.Session == nil {
				return errNoSession
			}
			ctx := cmd.Context()
			for _, key := range []string{session.KeySupervisorID, session.KeySupervisorName} {
				if err := env.Session.Delete(ctx, key); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared cached supervisor")
			return nil
		},
	}

	cmd.AddCommand(setCmd, showCmd, clearCmd)
	return cmd
}
