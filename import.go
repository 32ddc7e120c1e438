package foundations

import (
	"encoding/json"
	"fmt"
	"io"
)

// ImportResult summarises a completed import.
type ImportResult struct {
	Properties       int  `json:"properties"`
	ContactsImported bool `json:"contactsImported"`
}

// Import reads a backup payload and replaces the local collection with
// its contents. Two payload shapes are accepted: a bare array of
// properties, or the ExportData object form with an optional contacts
// directory.
//
// Parsing is all-or-nothing: a malformed payload leaves existing state
// untouched. Individual entities are still normalised leniently via
// MergeDefaults once the payload as a whole has parsed.
func (c *Client) Import(r io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("import: read: %w", err)
	}

	properties, contacts, err := parseImport(raw)
	if err != nil {
		return nil, err
	}

	c.engine.ReplaceAll(properties)

	result := &ImportResult{Properties: len(properties)}
	if contacts != nil {
		c.settings.SaveContacts(*contacts)
		result.ContactsImported = true
	}
	return result, nil
}

// parseImport decodes either accepted payload shape without applying
// anything.
func parseImport(raw []byte) ([]Property, *ProfessionalContacts, error) {
	var properties []Property
	if err := json.Unmarshal(raw, &properties); err == nil {
		return properties, nil, nil
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, nil, ErrInvalidImport
	}
	if data.Properties == nil {
		return nil, nil, ErrInvalidImport
	}
	return data.Properties, data.ProfessionalContacts, nil
}
