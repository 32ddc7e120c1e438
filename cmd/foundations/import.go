package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a JSON backup",
	Long: `Import properties and contacts from a JSON backup, replacing the
current collection. Accepts both the full backup object and a bare
property array. Reads from stdin when no file is given.

Example:
  foundations import backup.json
  foundations import < backup.json
  foundations import --clipboard`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var importClipboard bool

func init() {
	importCmd.Flags().BoolVar(&importClipboard, "clipboard", false, "Read from system clipboard")
}

func runImport(cmd *cobra.Command, args []string) error {
	var source io.Reader
	var closeSource func() error

	switch {
	case importClipboard:
		content, err := clipboard.ReadAll()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		source = strings.NewReader(content)
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		source = f
		closeSource = f.Close
	default:
		source = cmd.InOrStdin()
	}
	if closeSource != nil {
		defer closeSource()
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.Import(source)
	if err != nil {
		if errors.Is(err, foundations.ErrInvalidImport) {
			return fmt.Errorf("not a valid backup: expected a property array or backup object")
		}
		return fmt.Errorf("import: %w", err)
	}

	printSuccess(cmd.OutOrStdout(), "Imported %d propert%s", result.Properties, plural(result.Properties, "y", "ies"))
	if result.ContactsImported {
		printMuted(cmd.OutOrStdout(), "Professional contacts imported.")
	}
	return nil
}
