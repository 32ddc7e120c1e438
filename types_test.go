package foundations

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEmptyProperty_Defaults(t *testing.T) {
	p := EmptyProperty()

	if p.Bedrooms != 3 {
		t.Errorf("Bedrooms = %d, want 3", p.Bedrooms)
	}
	if p.Bathrooms != 1 {
		t.Errorf("Bathrooms = %d, want 1", p.Bathrooms)
	}
	if !p.Garden {
		t.Error("Garden should default to true")
	}
	if p.PropertyType != "semi-detached" {
		t.Errorf("PropertyType = %q, want semi-detached", p.PropertyType)
	}
	if p.Tenure != "freehold" {
		t.Errorf("Tenure = %q, want freehold", p.Tenure)
	}
	if p.Status != StatusInterested {
		t.Errorf("Status = %q, want %q", p.Status, StatusInterested)
	}
	if p.CommuteTimes == nil || p.Photos == nil || p.PriceHistory == nil || p.Offers == nil {
		t.Error("nested collections should be initialised, not nil")
	}
}

func TestTemporaryID_Roundtrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewTemporaryID(now)

	if id != "1748779200000" {
		t.Errorf("NewTemporaryID = %q, want %q", id, "1748779200000")
	}
	if !IsTemporaryID(id) {
		t.Errorf("IsTemporaryID(%q) = false, want true", id)
	}
}

func TestIsTemporaryID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"1718000000000", true},
		{"42", true},
		{"", false},
		{"abc123def456789", false},
		{"rec_9f8e7d", false},
		{"123abc", false},
	}
	for _, tt := range tests {
		if got := IsTemporaryID(tt.id); got != tt.want {
			t.Errorf("IsTemporaryID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestProperty_UnknownFieldsSurviveRoundtrip(t *testing.T) {
	input := `{"id":"abc123","address":"12 Oak Lane","solarPanels":"yes","futureScore":9.5}`

	var p Property
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if p.Address != "12 Oak Lane" {
		t.Errorf("Address = %q, want %q", p.Address, "12 Oak Lane")
	}
	if p.Extra["solarPanels"] != "yes" {
		t.Errorf("Extra[solarPanels] = %v, want yes", p.Extra["solarPanels"])
	}
	if p.Extra["futureScore"] != 9.5 {
		t.Errorf("Extra[futureScore] = %v, want 9.5", p.Extra["futureScore"])
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("re-Unmarshal failed: %v", err)
	}
	if out["solarPanels"] != "yes" {
		t.Error("unknown field solarPanels lost in round trip")
	}
	if out["futureScore"] != 9.5 {
		t.Error("unknown field futureScore lost in round trip")
	}
	if out["address"] != "12 Oak Lane" {
		t.Error("known field address lost in round trip")
	}
}

func TestProperty_KnownFieldsDoNotLeakIntoExtra(t *testing.T) {
	input := `{"id":"abc123","address":"12 Oak Lane","notes":"nice","agentEmail":"a@b.c"}`

	var p Property
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(p.Extra) != 0 {
		t.Errorf("Extra = %v, want empty", p.Extra)
	}
	if p.Notes != "nice" {
		t.Errorf("Notes = %q, want nice", p.Notes)
	}
	if p.AgentEmail != "a@b.c" {
		t.Errorf("AgentEmail = %q, want a@b.c", p.AgentEmail)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range ValidStatuses() {
		if !IsValidStatus(status) {
			t.Errorf("IsValidStatus(%q) = false, want true", status)
		}
	}
	if IsValidStatus("daydreaming") {
		t.Error("IsValidStatus should reject unknown values")
	}
	if IsValidStatus("") {
		t.Error("IsValidStatus should reject empty string")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.DarkMode {
		t.Error("DarkMode should default to false")
	}
	if !s.FormSections["basicDetails"] {
		t.Error("basicDetails section should default to expanded")
	}
	if len(s.CommuteDestinations) != 2 {
		t.Fatalf("CommuteDestinations = %d entries, want 2", len(s.CommuteDestinations))
	}
	if s.CommuteDestinations[0].ID != "eastleigh" || s.CommuteDestinations[1].ID != "totton" {
		t.Errorf("default destinations = %+v", s.CommuteDestinations)
	}
}
