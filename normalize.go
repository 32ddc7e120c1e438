package foundations

import (
	"fmt"
	"time"
)

// legacyOfferStatus maps the deprecated flat offerStatus values to the
// offer-history status vocabulary.
var legacyOfferStatus = map[string]string{
	"pending":   OfferSubmitted,
	"accepted":  OfferAccepted,
	"rejected":  OfferRejected,
	"countered": OfferCountered,
}

// MergeDefaults normalises a property into the current shape. It is
// applied everywhere properties enter the system: cache load, server
// fetch, realtime events and import.
//
// Two kinds of repair happen here. Missing nested structures (commute
// times, photos, offers, price history) get empty defaults so callers
// never see nil. Deprecated flat fields from older snapshots are folded
// into their structured replacements: offerMade/offerStatus become the
// first offer-history entry, and commuteToEastleigh/commuteToTotton
// become commuteTimes entries. Structured values that already exist are
// never overwritten.
func MergeDefaults(p Property) Property {
	if p.CommuteTimes == nil {
		p.CommuteTimes = map[string]string{}
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}
	if p.PriceHistory == nil {
		p.PriceHistory = []PriceEntry{}
	}
	if p.Offers == nil {
		p.Offers = []Offer{}
	}

	if len(p.Offers) == 0 {
		if amount := extraString(p, "offerMade"); amount != "" {
			status, ok := legacyOfferStatus[extraString(p, "offerStatus")]
			if !ok {
				status = OfferSubmitted
			}
			date := p.DateAdded
			if date == "" {
				date = time.Now().UTC().Format(time.RFC3339)
			}
			p.Offers = []Offer{{
				ID:     NewTemporaryID(time.Now()),
				Date:   date,
				Amount: amount,
				Status: status,
			}}
		}
	}

	if p.CommuteTimes["eastleigh"] == "" && p.CommuteToEastleigh != "" {
		p.CommuteTimes["eastleigh"] = p.CommuteToEastleigh
	}
	if p.CommuteTimes["totton"] == "" && p.CommuteToTotton != "" {
		p.CommuteTimes["totton"] = p.CommuteToTotton
	}

	return p
}

// extraString pulls a deprecated flat field out of the property's
// unknown-field bag, tolerating the numeric encoding older snapshots
// used for amounts.
func extraString(p Property, key string) string {
	v, ok := p.Extra[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}
