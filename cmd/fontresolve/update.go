package main

import (
	"context"
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/update"
	"github.com/spf13/cobra"
)

// runUpdate runs the web font database update check with an empty manifest
// URL; no update URL is read from the config, so the check short-circuits
// to a no-op (reported as "already up to date") rather than an error.
func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, true)
	if err != nil {
		return err
	}
	if orch.WebDB == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "web fonts disabled; nothing to update")
		return nil
	}

	mgr := update.NewManager("", nil)
	out := cmd.OutOrStdout()

	merged, result, err := mgr.UpdateFromInternet(context.Background(), orch.WebDB.Raw(), func(downloaded, total int64) {
		if total > 0 {
			fmt.Fprintf(out, "\r%d%%", int(downloaded*100/total))
		}
	})
	if err != nil {
		fmt.Fprintln(out, err)
		return nil
	}
	if result == nil {
		fmt.Fprintln(out, "already up to date")
		return nil
	}

	orch.UpdateDatabase(context.Background(), merged)
	fmt.Fprintf(out, "\nupdated: %d added, %d updated\n", result.Added, result.Updated)
	return nil
}
