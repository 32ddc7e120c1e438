package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one property in full",
	Long: `Show the full record of a tracked property.

Example:
  foundations show abc123def456
  foundations show abc123def456 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	p, ok := client.Get(args[0])
	if !ok {
		return fmt.Errorf("property %s not found", args[0])
	}

	return outputProperty(cmd, p)
}
