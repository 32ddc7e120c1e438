package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a tracked property",
	Long: `Update fields of a tracked property. Only the provided flags
change; other fields keep their current values.

Example:
  foundations update abc123def456 --status viewed --rating 4
  foundations update abc123def456 --price 310000 --notes "Price reduced"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var (
	updateStatus   string
	updatePrice    string
	updateNotes    string
	updateRating   int
	updateFavorite bool
	updateArchive  bool
)

func init() {
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	updateCmd.Flags().StringVar(&updatePrice, "price", "", "New asking price (recorded in price history)")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "Replace notes")
	updateCmd.Flags().IntVar(&updateRating, "rating", 0, "Rating 1-5")
	updateCmd.Flags().BoolVar(&updateFavorite, "favorite", false, "Toggle favorite")
	updateCmd.Flags().BoolVar(&updateArchive, "archive", false, "Toggle archived")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if updateStatus != "" && !foundations.IsValidStatus(updateStatus) {
		return fmt.Errorf("invalid status %q, valid values: %s", updateStatus, strings.Join(foundations.ValidStatuses(), ", "))
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	p, ok := client.Get(args[0])
	if !ok {
		return fmt.Errorf("property %s not found", args[0])
	}

	if updateStatus != "" {
		p.Status = updateStatus
	}
	if updatePrice != "" && updatePrice != p.Price {
		p.PriceHistory = append(p.PriceHistory, foundations.PriceEntry{
			Date:  time.Now().UTC().Format(time.RFC3339),
			Price: updatePrice,
			Note:  "updated via cli",
		})
		p.Price = updatePrice
	}
	if cmd.Flags().Changed("notes") {
		p.Notes = updateNotes
	}
	if cmd.Flags().Changed("rating") {
		if updateRating < 1 || updateRating > 5 {
			return fmt.Errorf("rating must be between 1 and 5")
		}
		p.Rating = updateRating
	}
	if cmd.Flags().Changed("favorite") {
		p.Favorite = updateFavorite
	}
	if cmd.Flags().Changed("archive") {
		p.Archived = updateArchive
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client.Update(ctx, args[0], p)

	if outputJSON {
		updated, _ := client.Get(args[0])
		return outputAsJSON(cmd, updated)
	}
	printSuccess(cmd.OutOrStdout(), "Updated %s", p.Address)
	return nil
}
