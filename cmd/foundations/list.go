package main

import (
	"fmt"
	"strings"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked properties",
	Long: `List the tracked properties from the local cache.

Example:
  foundations list
  foundations list --status viewed
  foundations list --favorites --json`,
	RunE: runList,
}

var (
	listStatus    string
	listArchived  bool
	listFavorites bool
)

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status ("+strings.Join(foundations.ValidStatuses(), ", ")+")")
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "Include archived properties")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Show only favorites")
}

func runList(cmd *cobra.Command, args []string) error {
	if listStatus != "" && !foundations.IsValidStatus(listStatus) {
		return fmt.Errorf("invalid status %q, valid values: %s", listStatus, strings.Join(foundations.ValidStatuses(), ", "))
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var props []foundations.Property
	for _, p := range client.Properties() {
		if p.Archived && !listArchived {
			continue
		}
		if listStatus != "" && p.Status != listStatus {
			continue
		}
		if listFavorites && !p.Favorite {
			continue
		}
		props = append(props, p)
	}

	return outputPropertyList(cmd, props)
}
