package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/spf13/cobra"
)

// outputAsJSON writes any value as formatted JSON to the command's stdout.
func outputAsJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError prints an error to stderr, redacting the auth token if
// it has leaked into the message.
func outputError(w io.Writer, err error) {
	msg := scrubSensitiveData(err.Error())
	fmt.Fprintf(w, "Error: %s\n", msg)
}

func scrubSensitiveData(msg string) string {
	if cfgAuthToken != "" && strings.Contains(msg, cfgAuthToken) {
		msg = strings.ReplaceAll(msg, cfgAuthToken, "[REDACTED]")
	}
	return msg
}

// outputProperty prints a single property in the configured format.
func outputProperty(cmd *cobra.Command, p foundations.Property) error {
	if outputJSON {
		return outputAsJSON(cmd, p)
	}
	return outputPropertyHuman(cmd, p)
}

func outputPropertyHuman(cmd *cobra.Command, p foundations.Property) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", p.Address)
	if p.Postcode != "" {
		fmt.Fprintf(out, "  Postcode:  %s\n", p.Postcode)
	}
	fmt.Fprintf(out, "  ID:        %s\n", p.ID)
	if p.Price != "" {
		fmt.Fprintf(out, "  Price:     £%s\n", p.Price)
	}
	fmt.Fprintf(out, "  Beds/baths: %d/%d\n", p.Bedrooms, p.Bathrooms)
	fmt.Fprintf(out, "  Type:      %s, %s\n", p.PropertyType, p.Tenure)
	fmt.Fprintf(out, "  Status:    %s\n", statusLabel(p.Status))
	if p.Agent != "" {
		fmt.Fprintf(out, "  Agent:     %s %s\n", p.Agent, p.AgentPhone)
	}
	if p.ListingURL != "" {
		fmt.Fprintf(out, "  Listing:   %s\n", p.ListingURL)
	}
	if p.Notes != "" {
		fmt.Fprintf(out, "  Notes:     %s\n", p.Notes)
	}
	if foundations.IsTemporaryID(p.ID) {
		fmt.Fprintln(out, "  (not yet synced to remote store)")
	}
	return nil
}

// outputPropertyList prints a summary table of properties.
func outputPropertyList(cmd *cobra.Command, props []foundations.Property) error {
	if outputJSON {
		return outputAsJSON(cmd, props)
	}

	out := cmd.OutOrStdout()
	if len(props) == 0 {
		fmt.Fprintln(out, "No properties tracked.")
		return nil
	}

	for _, p := range props {
		marker := " "
		if p.Favorite {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-15s  %-40s  £%-9s  %s\n",
			marker, p.ID, p.Address, p.Price, statusLabel(p.Status))
	}
	fmt.Fprintf(out, "\n%d propert%s\n", len(props), plural(len(props), "y", "ies"))
	return nil
}

func statusLabel(status string) string {
	if label, ok := foundations.StatusLabels[status]; ok {
		return label
	}
	return status
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
