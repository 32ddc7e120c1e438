package foundations

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(t *testing.T, gw Gateway) *Client {
	t.Helper()
	client := NewWithBackends(Config{CachePath: "unused", OwnerID: ownerForGateway(gw)}, NewMemoryStore(), gw)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// ownerForGateway gives authenticated wiring only when a gateway is
// present.
func ownerForGateway(gw Gateway) string {
	if gw == nil {
		return ""
	}
	return "owner123"
}

func TestExport_ObjectShape(t *testing.T) {
	client := newTestClient(t, nil)

	p := EmptyProperty()
	p.Address = "12 Oak Lane"
	client.Add(context.Background(), p)
	client.SaveContacts(ProfessionalContacts{Solicitor: SolicitorContact{Name: "Jane Doe"}})

	var buf bytes.Buffer
	if err := client.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export output did not parse: %v", err)
	}
	if len(data.Properties) != 1 || data.Properties[0].Address != "12 Oak Lane" {
		t.Errorf("Properties = %+v", data.Properties)
	}
	if data.ProfessionalContacts == nil || data.ProfessionalContacts.Solicitor.Name != "Jane Doe" {
		t.Errorf("ProfessionalContacts = %+v", data.ProfessionalContacts)
	}
}

func TestExport_StampsLastExport(t *testing.T) {
	client := newTestClient(t, nil)

	if !client.LastExport().IsZero() {
		t.Fatal("LastExport should start zero")
	}

	before := time.Now().Add(-time.Second)
	if err := client.Export(&bytes.Buffer{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	stamp := client.LastExport()
	if stamp.IsZero() || stamp.Before(before) {
		t.Errorf("LastExport = %v, want a fresh stamp", stamp)
	}
}

func TestExport_IsIndented(t *testing.T) {
	client := newTestClient(t, nil)

	var buf bytes.Buffer
	if err := client.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  ")) {
		t.Error("export output should be indented for hand inspection")
	}
}
