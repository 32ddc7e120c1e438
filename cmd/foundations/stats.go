package main

import (
	"fmt"
	"time"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/spf13/cobra"
)

// backupReminderAge is how stale the last export may get before the
// stats command nags about it.
const backupReminderAge = 7 * 24 * time.Hour

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tracker statistics",
	Long: `Display counts by status, sync queue state and backup age.

Example:
  foundations stats
  foundations stats --json`,
	RunE: runStats,
}

type statsInfo struct {
	Total      int            `json:"total"`
	Archived   int            `json:"archived"`
	Favorites  int            `json:"favorites"`
	ByStatus   map[string]int `json:"byStatus"`
	Pending    int            `json:"pendingSync"`
	Online     bool           `json:"online"`
	LastExport string         `json:"lastExport,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	info := statsInfo{ByStatus: make(map[string]int)}
	for _, p := range client.Properties() {
		info.Total++
		if p.Archived {
			info.Archived++
		}
		if p.Favorite {
			info.Favorites++
		}
		info.ByStatus[p.Status]++
	}
	info.Pending = client.PendingCount()
	info.Online = client.Online()

	lastExport := client.LastExport()
	if !lastExport.IsZero() {
		info.LastExport = lastExport.Format(time.RFC3339)
	}

	if outputJSON {
		return outputAsJSON(cmd, info)
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Foundations")
	fmt.Fprintf(out, "Properties:   %d (%d archived, %d favorites)\n", info.Total, info.Archived, info.Favorites)
	for _, status := range foundations.ValidStatuses() {
		if n := info.ByStatus[status]; n > 0 {
			fmt.Fprintf(out, "  %-16s %d\n", foundations.StatusLabels[status], n)
		}
	}

	state := "offline"
	if info.Online {
		state = "online"
	}
	fmt.Fprintf(out, "Remote:       %s\n", state)
	fmt.Fprintf(out, "Pending sync: %d\n", info.Pending)

	if lastExport.IsZero() {
		fmt.Fprintln(out, "Last backup:  never")
		if info.Total > 0 {
			printWarning(out, "No backup yet; run 'foundations export'.")
		}
	} else {
		age := time.Since(lastExport)
		fmt.Fprintf(out, "Last backup:  %s (%s ago)\n", lastExport.Format("2006-01-02"), age.Round(time.Hour))
		if age > backupReminderAge && info.Total > 0 {
			printWarning(out, "Backup is over a week old; run 'foundations export'.")
		}
	}

	return nil
}
