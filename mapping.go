package foundations

import (
	"encoding/json"
	"strconv"
)

// Record is the flat shape spoken by the remote gateway: string keys
// mapped to primitive or JSON-blob values.
type Record map[string]any

// ID returns the record's identifier field, if present.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// localToRemote is the fixed rename table for fields whose remote
// column name differs from the local camelCase name. Everything else
// passes through unchanged.
var localToRemote = map[string]string{
	"propertyType":     "property_type",
	"councilTaxBand":   "council_tax",
	"epcRating":        "epc_rating",
	"agent":            "agent_name",
	"agentPhone":       "agent_phone",
	"agentEmail":       "agent_email",
	"listingUrl":       "listing_url",
	"viewingDate":      "viewing_date",
	"viewingTime":      "viewing_time",
	"viewingNotes":     "viewing_notes",
	"floodRisk":        "flood_risk",
	"dateAdded":        "date_added",
	"firstTimeBuyer":   "first_time_buyer",
	"subsidenceRisk":   "subsidence_risk",
	"japaneseKnotweed": "japanese_knotweed",
	"nearbyPlanning":   "nearby_planning",
	"mobileSignal":     "mobile_signal",
	"buildYear":        "build_year",
	"constructionType": "construction_type",
	"priceHistory":     "price_history",
	"chainLength":      "chain_length",
	"sellerSituation":  "seller_situation",
	"surveyLevel":      "survey_level",
	"surveyDate":       "survey_date",
	"surveyFindings":   "survey_findings",
	"commuteTimes":     "commute_times",
	"legacyId":         "legacy_id",
}

// remoteToLocal is the inverse rename table.
var remoteToLocal = func() map[string]string {
	m := make(map[string]string, len(localToRemote))
	for local, remote := range localToRemote {
		m[remote] = local
	}
	return m
}()

// remoteInternal lists remote-managed fields that are not part of the
// entity's semantic state and are dropped on the inbound path.
var remoteInternal = map[string]struct{}{
	"collectionId":   {},
	"collectionName": {},
	"created":        {},
	"updated":        {},
}

// ToRecord converts a property into the remote record shape. The local
// identifier is dropped (the remote store assigns its own); the owner
// reference is attached when provided. Nested structures travel as
// opaque JSON values; their keys are not renamed.
func ToRecord(p Property, ownerID string) Record {
	record := Record{}
	if ownerID != "" {
		record["owner"] = ownerID
	}

	for key, value := range propertyFields(p) {
		if key == "id" {
			continue
		}
		remoteKey, ok := localToRemote[key]
		if !ok {
			remoteKey = key
		}
		record[remoteKey] = value
	}

	return record
}

// FromRecord converts a remote record back into a property. The remote
// identifier becomes the property ID; remote bookkeeping fields and the
// owner reference are dropped; unrecognised fields pass through into
// the property's Extra bag.
func FromRecord(record Record) Property {
	fields := make(map[string]any, len(record))
	for key, value := range record {
		if _, internal := remoteInternal[key]; internal {
			continue
		}
		if key == "owner" {
			continue
		}
		if key == "id" {
			fields["id"] = value
			continue
		}
		localKey, ok := remoteToLocal[key]
		if !ok {
			localKey = key
		}
		fields[localKey] = value
	}

	// Older remote records stored some stringly fields as numbers.
	for _, key := range stringlyFields {
		if n, ok := fields[key].(float64); ok {
			fields[key] = formatNumber(n)
		}
	}

	// Round through JSON so typed fields decode and the remainder
	// lands in Extra.
	raw, err := json.Marshal(fields)
	if err != nil {
		return Property{}
	}
	var p Property
	if err := json.Unmarshal(raw, &p); err != nil {
		return Property{}
	}
	return p
}

// stringlyFields are property fields typed as strings locally that
// some remote schema versions store as numeric columns.
var stringlyFields = []string{"price", "sqft", "latitude", "longitude", "buildYear"}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// propertyFields flattens a property into its camelCase field map,
// including Extra fields.
func propertyFields(p Property) map[string]any {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}
