package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked data as JSON",
	Long: `Export all tracked properties and professional contacts as a JSON
backup. Writes to stdout unless --output or --clipboard is given.

Example:
  foundations export > backup.json
  foundations export --output backup.json
  foundations export --clipboard`,
	RunE: runExport,
}

var (
	exportOutput    string
	exportClipboard bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy to system clipboard")
}

func runExport(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	count := len(client.Properties())

	if exportClipboard {
		var buf bytes.Buffer
		if err := client.Export(&buf); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := clipboard.WriteAll(buf.String()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Copied %d propert%s to clipboard", count, plural(count, "y", "ies"))
		return nil
	}

	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		if err := client.Export(f); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Exported %d propert%s to %s", count, plural(count, "y", "ies"), exportOutput)
		return nil
	}

	return client.Export(cmd.OutOrStdout())
}
