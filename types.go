package foundations

import (
	"encoding/json"
	"strconv"
	"time"
)

// Property represents a single candidate property being tracked.
//
// Fields carry camelCase JSON names matching the local cache snapshot
// format. Unknown fields encountered during decoding are preserved in
// Extra so that records written by newer versions survive a round trip
// through an older client.
type Property struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	Postcode     string `json:"postcode"`
	Price        string `json:"price"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	Parking      string `json:"parking"`
	Garden       bool   `json:"garden"`
	Broadband    string `json:"broadband"`
	PropertyType string `json:"propertyType"`
	Tenure       string `json:"tenure"`
	SqFt         string `json:"sqft"`
	EPCRating    string `json:"epcRating"`
	CouncilTax   string `json:"councilTaxBand"`

	// Deprecated flat commute fields, folded into CommuteTimes by
	// MergeDefaults. Kept so old snapshots still decode.
	CommuteToEastleigh string `json:"commuteToEastleigh,omitempty"`
	CommuteToTotton    string `json:"commuteToTotton,omitempty"`

	CommuteTimes map[string]string `json:"commuteTimes"`

	Agent        string `json:"agent"`
	AgentPhone   string `json:"agentPhone"`
	AgentEmail   string `json:"agentEmail,omitempty"`
	ListingURL   string `json:"listingUrl"`
	ViewingDate  string `json:"viewingDate"`
	ViewingTime  string `json:"viewingTime,omitempty"`
	ViewingNotes string `json:"viewingNotes"`
	Pros         string `json:"pros"`
	Cons         string `json:"cons"`
	Notes        string `json:"notes,omitempty"`

	Status    string `json:"status"`
	Favorite  bool   `json:"favorite"`
	Archived  bool   `json:"archived"`
	DateAdded string `json:"dateAdded"`
	Rating    int    `json:"rating"`

	FirstTimeBuyer   bool   `json:"firstTimeBuyer"`
	FloodRisk        string `json:"floodRisk"`
	SubsidenceRisk   string `json:"subsidenceRisk"`
	JapaneseKnotweed string `json:"japaneseKnotweed"`
	NearbyPlanning   string `json:"nearbyPlanning"`
	MobileSignal     string `json:"mobileSignal"`
	BuildYear        string `json:"buildYear"`
	ConstructionType string `json:"constructionType"`

	PriceHistory    []PriceEntry `json:"priceHistory"`
	ChainLength     string       `json:"chainLength"`
	SellerSituation string       `json:"sellerSituation"`
	SurveyLevel     string       `json:"surveyLevel"`
	SurveyDate      string       `json:"surveyDate"`
	SurveyFindings  string       `json:"surveyFindings"`

	Documents    DocumentChecklist    `json:"documents"`
	Photos       []string             `json:"photos"`
	Latitude     string               `json:"latitude"`
	Longitude    string               `json:"longitude"`
	Offers       []Offer              `json:"offers"`
	Conveyancing ConveyancingTimeline `json:"conveyancing"`

	// Extra holds fields this client version does not know about.
	// They round-trip through both the cache and the field mapper.
	Extra map[string]any `json:"-"`
}

// propertyAlias avoids recursion in the custom JSON methods.
type propertyAlias Property

// knownPropertyFields is derived once from the alias type's JSON tags.
var knownPropertyFields = func() map[string]struct{} {
	raw, _ := json.Marshal(propertyAlias{CommuteToEastleigh: "x", CommuteToTotton: "x", AgentEmail: "x", ViewingTime: "x", Notes: "x"})
	var m map[string]json.RawMessage
	_ = json.Unmarshal(raw, &m)
	known := make(map[string]struct{}, len(m))
	for k := range m {
		known[k] = struct{}{}
	}
	return known
}()

// UnmarshalJSON decodes known fields into the struct and collects
// anything else into Extra.
func (p *Property) UnmarshalJSON(data []byte) error {
	var alias propertyAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Property(alias)
	for key, val := range raw {
		if _, ok := knownPropertyFields[key]; ok {
			continue
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			return err
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}
	return nil
}

// MarshalJSON emits known fields plus any Extra fields. Known fields
// win on name collision.
func (p Property) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(propertyAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return raw, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for key, val := range p.Extra {
		if _, ok := merged[key]; !ok {
			merged[key] = val
		}
	}
	return json.Marshal(merged)
}

// DocumentChecklist tracks the due-diligence documents gathered for a
// property, split into pre-offer and post-offer checks.
type DocumentChecklist struct {
	EPCDownloaded        bool `json:"epcDownloaded"`
	FloorPlanSaved       bool `json:"floorPlanSaved"`
	ListingScreenshot    bool `json:"listingScreenshot"`
	TitleRegisterChecked bool `json:"titleRegisterChecked"`
	FloodReportRun       bool `json:"floodReportRun"`
	PlanningChecked      bool `json:"planningChecked"`
	SoldPricesChecked    bool `json:"soldPricesChecked"`
	SurveyBooked         bool `json:"surveyBooked"`
	SurveyReceived       bool `json:"surveyReceived"`
	SearchesOrdered      bool `json:"searchesOrdered"`
	SearchesReceived     bool `json:"searchesReceived"`
}

// ConveyancingTimeline records milestone dates once an offer has been
// accepted. Empty string means the milestone has not been reached.
type ConveyancingTimeline struct {
	OfferAcceptedDate       string `json:"offerAcceptedDate"`
	SolicitorInstructedDate string `json:"solicitorInstructedDate"`
	MortgageSubmittedDate   string `json:"mortgageSubmittedDate"`
	MortgageOfferDate       string `json:"mortgageOfferDate"`
	MortgageOfferExpiry     string `json:"mortgageOfferExpiry"`
	SearchesOrderedDate     string `json:"searchesOrderedDate"`
	SearchesReceivedDate    string `json:"searchesReceivedDate"`
	SurveyBookedDate        string `json:"surveyBookedDate"`
	SurveyReceivedDate      string `json:"surveyReceivedDate"`
	EnquiriesRaisedDate     string `json:"enquiriesRaisedDate"`
	EnquiriesResolvedDate   string `json:"enquiriesResolvedDate"`
	ExchangeDate            string `json:"exchangeDate"`
	CompletionDate          string `json:"completionDate"`
}

// Offer is a single entry in a property's offer history.
type Offer struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
	Response string `json:"response"`
	Notes    string `json:"notes"`
}

// PriceEntry is a single entry in a property's asking-price history.
type PriceEntry struct {
	Date  string `json:"date"`
	Price string `json:"price"`
	Note  string `json:"note"`
}

// Property status values.
const (
	StatusInterested    = "interested"
	StatusViewingBooked = "viewing_booked"
	StatusViewed        = "viewed"
	StatusOfferMade     = "offer_made"
	StatusOfferAccepted = "offer_accepted"
	StatusRejected      = "rejected"
	StatusWithdrawn     = "withdrawn"
)

// StatusLabels maps status values to their display names.
var StatusLabels = map[string]string{
	StatusInterested:    "Interested",
	StatusViewingBooked: "Viewing Booked",
	StatusViewed:        "Viewed",
	StatusOfferMade:     "Offer Made",
	StatusOfferAccepted: "Offer Accepted",
	StatusRejected:      "Not Proceeding",
	StatusWithdrawn:     "Withdrawn",
}

// ValidStatuses returns all recognised property status values.
func ValidStatuses() []string {
	return []string{
		StatusInterested,
		StatusViewingBooked,
		StatusViewed,
		StatusOfferMade,
		StatusOfferAccepted,
		StatusRejected,
		StatusWithdrawn,
	}
}

// IsValidStatus checks whether s is a recognised status value.
func IsValidStatus(s string) bool {
	_, ok := StatusLabels[s]
	return ok
}

// Offer status values carried in the offer history.
const (
	OfferSubmitted = "Submitted"
	OfferAccepted  = "Accepted"
	OfferRejected  = "Rejected"
	OfferCountered = "Countered"
)

// EmptyProperty returns a property populated with the default values a
// freshly created record carries.
func EmptyProperty() Property {
	return Property{
		Bedrooms:     3,
		Bathrooms:    1,
		Garden:       true,
		PropertyType: "semi-detached",
		Tenure:       "freehold",
		Status:       StatusInterested,
		CommuteTimes: map[string]string{},
		PriceHistory: []PriceEntry{},
		Photos:       []string{},
		Offers:       []Offer{},
	}
}

// NewTemporaryID generates a client-local identifier for a property
// that has not yet been accepted by the remote store. Temporary IDs are
// numeric strings; server-assigned IDs never are, so the two spaces
// stay disjoint.
func NewTemporaryID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// IsTemporaryID reports whether id belongs to the client-local
// identifier space.
func IsTemporaryID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ProfessionalContacts is the user's directory of conveyancing
// professionals, stored once per owner in settings.
type ProfessionalContacts struct {
	Solicitor SolicitorContact `json:"solicitor"`
	Broker    BrokerContact    `json:"broker"`
	Mortgage  MortgageDetails  `json:"mortgage"`
}

// SolicitorContact holds the conveyancing solicitor's details.
type SolicitorContact struct {
	Name      string `json:"name"`
	Firm      string `json:"firm"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Reference string `json:"reference"`
}

// BrokerContact holds the mortgage broker's details.
type BrokerContact struct {
	Name  string `json:"name"`
	Firm  string `json:"firm"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// MortgageDetails holds the agreed mortgage product details.
type MortgageDetails struct {
	Lender  string `json:"lender"`
	Product string `json:"product"`
	Rate    string `json:"rate"`
	Term    string `json:"term"`
}

// CommuteDestination is a named place commute times are tracked against.
type CommuteDestination struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultDestinations returns the commute destinations a new install
// starts with.
func DefaultDestinations() []CommuteDestination {
	return []CommuteDestination{
		{ID: "eastleigh", Name: "Eastleigh"},
		{ID: "totton", Name: "Totton"},
	}
}

// Settings holds per-owner preferences synced through the user_settings
// collection. One record per owner, created lazily on first save.
type Settings struct {
	DarkMode             bool                 `json:"darkMode"`
	FormSections         map[string]bool      `json:"formSections"`
	ProfessionalContacts ProfessionalContacts `json:"professionalContacts"`
	CommuteDestinations  []CommuteDestination `json:"commuteDestinations"`
}

// DefaultFormSections returns the default expand/collapse state of the
// property form sections.
func DefaultFormSections() map[string]bool {
	return map[string]bool{
		"basicDetails":   true,
		"specifications": false,
		"location":       false,
		"riskAssessment": false,
		"chainSurvey":    false,
		"agentListing":   false,
		"photoGallery":   false,
		"viewingNotes":   false,
		"priceHistory":   false,
		"offerHistory":   false,
		"conveyancing":   false,
	}
}

// DefaultSettings returns the settings a new install starts with.
func DefaultSettings() Settings {
	return Settings{
		FormSections:        DefaultFormSections(),
		CommuteDestinations: DefaultDestinations(),
	}
}
