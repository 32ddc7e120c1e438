package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a property to the tracker",
	Long: `Add a new candidate property. The record is stored locally right
away; when a remote store is configured the create is pushed in the
same invocation, or queued if the push fails.

Example:
  foundations add --address "12 Oak Lane" --postcode "SO50 4AB" --price 325000
  foundations add --address "3 Elm Close" --bedrooms 4 --garden=false`,
	RunE: runAdd,
}

var (
	addAddress   string
	addPostcode  string
	addPrice     string
	addBedrooms  int
	addBathrooms int
	addGarden    bool
	addType      string
	addTenure    string
	addStatus    string
	addAgent     string
	addPhone     string
	addURL       string
	addNotes     string
)

func init() {
	addCmd.Flags().StringVar(&addAddress, "address", "", "Street address (required)")
	addCmd.Flags().StringVar(&addPostcode, "postcode", "", "Postcode")
	addCmd.Flags().StringVar(&addPrice, "price", "", "Asking price")
	addCmd.Flags().IntVar(&addBedrooms, "bedrooms", 3, "Number of bedrooms")
	addCmd.Flags().IntVar(&addBathrooms, "bathrooms", 1, "Number of bathrooms")
	addCmd.Flags().BoolVar(&addGarden, "garden", true, "Has a garden")
	addCmd.Flags().StringVar(&addType, "type", "semi-detached", "Property type")
	addCmd.Flags().StringVar(&addTenure, "tenure", "freehold", "Tenure")
	addCmd.Flags().StringVar(&addStatus, "status", foundations.StatusInterested, "Initial status")
	addCmd.Flags().StringVar(&addAgent, "agent", "", "Estate agent name")
	addCmd.Flags().StringVar(&addPhone, "agent-phone", "", "Estate agent phone")
	addCmd.Flags().StringVar(&addURL, "url", "", "Listing URL")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")

	addCmd.MarkFlagRequired("address")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if !foundations.IsValidStatus(addStatus) {
		return fmt.Errorf("invalid status %q, valid values: %s", addStatus, strings.Join(foundations.ValidStatuses(), ", "))
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	p := foundations.EmptyProperty()
	p.Address = addAddress
	p.Postcode = addPostcode
	p.Price = addPrice
	p.Bedrooms = addBedrooms
	p.Bathrooms = addBathrooms
	p.Garden = addGarden
	p.PropertyType = addType
	p.Tenure = addTenure
	p.Status = addStatus
	p.Agent = addAgent
	p.AgentPhone = addPhone
	p.ListingURL = addURL
	p.Notes = addNotes

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := client.Add(ctx, p)

	if outputJSON {
		return outputAsJSON(cmd, created)
	}
	printSuccess(cmd.OutOrStdout(), "Added %s (%s)", created.Address, created.ID)
	if foundations.IsTemporaryID(created.ID) && client.PendingCount() > 0 {
		printMuted(cmd.OutOrStdout(), "Queued for sync; run 'foundations sync' when back online.")
	}
	return nil
}
