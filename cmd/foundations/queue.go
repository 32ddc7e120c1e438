package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the offline sync queue",
	Long: `Inspect or clear the queue of changes made while offline.

Example:
  foundations queue
  foundations queue clear`,
	RunE: runQueueStatus,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard all queued changes",
	Long: `Discard all queued changes without replaying them. The local
cache keeps the changes; only the pending remote pushes are dropped.`,
	RunE: runQueueClear,
}

var queueClearYes bool

func init() {
	queueClearCmd.Flags().BoolVarP(&queueClearYes, "yes", "y", false, "Skip confirmation")
	queueCmd.AddCommand(queueClearCmd)
}

func runQueueStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ops, err := client.PendingOperations()
	if err != nil {
		return fmt.Errorf("read queue: %w", err)
	}

	if outputJSON {
		return outputAsJSON(cmd, ops)
	}

	out := cmd.OutOrStdout()
	if len(ops) == 0 {
		fmt.Fprintln(out, "Sync queue is empty.")
		return nil
	}

	printHeader(out, fmt.Sprintf("%d pending operation(s)", len(ops)))
	for _, op := range ops {
		target := op.RecordID
		if target == "" && op.Data != nil {
			target = op.Data.ID()
		}
		fmt.Fprintf(out, "  %-6s  %-12s  %-15s  %s\n",
			op.Operation, op.Collection, target,
			op.Timestamp.Local().Format(time.RFC3339))
	}
	return nil
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	pending := client.PendingCount()
	if pending == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Sync queue is already empty.")
		return nil
	}

	if !queueClearYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Discard %d queued change(s)? [y/N]: ", pending)
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	if err := client.ClearQueue(); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Discarded %d queued change(s)", pending)
	return nil
}
