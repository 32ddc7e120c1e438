package foundations

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// ExportData is the backup file format. Exports always use this object
// form; imports additionally accept a bare property array (see
// import.go).
type ExportData struct {
	Properties           []Property            `json:"properties"`
	ProfessionalContacts *ProfessionalContacts `json:"professionalContacts,omitempty"`
}

// Export writes the full collection and contacts directory as indented
// JSON and stamps the last-export time in the cache.
func (c *Client) Export(w io.Writer) error {
	data := ExportData{
		Properties: c.engine.Properties(),
	}
	contacts := c.settings.Settings().ProfessionalContacts
	data.ProfessionalContacts = &contacts

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}

	stamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.cache.Set(KeyLastExport, stamp); err != nil {
		c.log.LogError("export stamp", err)
	}
	return nil
}

// LastExport returns when the collection was last exported, or the
// zero time if it never was.
func (c *Client) LastExport() time.Time {
	raw, ok, err := c.cache.Get(KeyLastExport)
	if err != nil || !ok {
		return time.Time{}
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis).UTC()
}
