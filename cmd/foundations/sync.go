package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize with the remote store",
	Long: `Replay queued offline changes, then reconcile the local cache
against the remote store.

Example:
  foundations sync              # replay queue + reconcile
  foundations sync --replay     # replay queue only`,
	RunE: runSync,
}

var syncReplayOnly bool

func init() {
	syncCmd.Flags().BoolVar(&syncReplayOnly, "replay", false, "Replay the pending queue only, skip reconciliation")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.IsOffline() {
		return fmt.Errorf("remote store not configured (set --remote-url or FOUNDATIONS_REMOTE_URL)")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	start := time.Now()

	pending := client.PendingCount()
	if pending > 0 {
		fmt.Fprintf(out, "Replaying %d queued change(s)...\n", pending)
		result, err := client.Sync(ctx, func(processed, total int) {
			printMuted(out, "  %d/%d", processed, total)
		})
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		if result.Failed > 0 {
			printWarning(out, "%d change(s) synced, %d still queued", result.Success, result.Failed)
		} else {
			printSuccess(out, "%d change(s) synced", result.Success)
		}
	} else {
		fmt.Fprintln(out, "No queued changes.")
	}

	if !syncReplayOnly {
		fmt.Fprintln(out, "Reconciling with remote store...")
		if err := client.Reconcile(ctx); err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
		printSuccess(out, "Reconciled %d propert%s", len(client.Properties()), plural(len(client.Properties()), "y", "ies"))
	}

	fmt.Fprintf(out, "Done (took %s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}
