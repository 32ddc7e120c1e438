package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a property from the tracker",
	Long: `Remove a property locally and from the remote store.

Example:
  foundations delete abc123def456
  foundations delete abc123def456 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	p, ok := client.Get(args[0])
	if !ok {
		return fmt.Errorf("property %s not found", args[0])
	}

	if !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %q? [y/N]: ", p.Address)
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client.Delete(ctx, args[0])
	printSuccess(cmd.OutOrStdout(), "Deleted %s", p.Address)
	return nil
}
