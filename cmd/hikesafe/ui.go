package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/tui"
)

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the full screen view",
		Long: `Open the full screen view with your transactions, the tracked paths of
completed hikes and your profile. Press ? inside for the key bindings.`,
		RunE: runUI,
	}

	cmd.Flags().String("tab", "transactions", "tab shown first (transactions, tracking, profile)")
	cmd.Flags().Bool("no-alt-screen", false, "render inline instead of on the alternate screen")

	return cmd
}

func runUI(cmd *cobra.Command, _ []string) error {
	tabName, _ := cmd.Flags().GetString("tab")
	noAlt, _ := cmd.Flags().GetBool("no-alt-screen")

	tab, err := parseTab(tabName)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		ok, err := a.session.Authenticated(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrNoToken
		}

		return tui.Run(ctx,
			tui.WithSource(a.session),
			tui.WithStartTab(tab),
			tui.WithAltScreen(!noAlt),
		)
	})
}

func parseTab(name string) (tui.Tab, error) {
	for _, tab := range []tui.Tab{tui.TabTransactions, tui.TabTracking, tui.TabProfile} {
		if strings.EqualFold(tab.String(), name) {
			return tab, nil
		}
	}
	return 0, common.NewValidationError("tab", fmt.Sprintf("Unknown tab %q.", name))
}
