package model

// TruckType is a canonical truck category after vocabulary lookup.
type TruckType string

const (
	TruckTypeOpen       TruckType = "open"
	TruckTypeContainer  TruckType = "container"
	TruckTypeMultiAxle  TruckType = "multi_axle"
	TruckTypeSingleAxle TruckType = "single_axle"
)

// Confidence map keys. Every populated entity field has an entry under its
// key; ConfidenceKeyOverall holds the mean of all the others.
const (
	ConfidenceKeyOverall = "overall"
)

// ExtractedEntities is the structured output of the extraction stage.
// Constructed once per transcript and immutable thereafter. Optional scalar
// fields use pointers; absent means "not extracted", never zero.
type ExtractedEntities struct {
	// Truck facts.
	TruckType   TruckType `json:"truck_type,omitempty"`
	TruckLength *int      `json:"truck_length,omitempty"`
	Tonnage     *float64  `json:"tonnage,omitempty"`

	// Route facts.
	FromLocation    string   `json:"from_location,omitempty"`
	ToLocation      string   `json:"to_location,omitempty"`
	PreferredRoutes []string `json:"preferred_routes,omitempty"`

	// Commercial facts. ExpectedRate is the price quoted BY the trucker;
	// QuotedRate is the price quoted TO the trucker by the dispatcher.
	ExpectedRate    *float64 `json:"expected_rate,omitempty"`
	QuotedRate      *float64 `json:"quoted_rate,omitempty"`
	RateFlexibility string   `json:"rate_flexibility,omitempty"`

	// Availability.
	AvailableImmediately    bool     `json:"available_immediately"`
	AvailabilityConstraints []string `json:"availability_constraints,omitempty"`

	// Contact facts.
	PhoneNumber string `json:"phone_number,omitempty"`

	// Conversational intent flags. Independent of whether the deterministic
	// pass actually recovered a value.
	DidPitchLoad       bool `json:"did_pitch_load"`
	WasPriceDiscussed  bool `json:"was_price_discussed"`
	DidSayNoLoad       bool `json:"did_say_no_load"`
	WasNumberExchanged bool `json:"was_number_exchanged"`

	// ConfidenceScores maps field name to a score in [0,1].
	ConfidenceScores map[string]float64 `json:"confidence_scores,omitempty"`

	// Extra is a forward-compatible side channel for fields that have no
	// struct slot yet.
	Extra map[string]string `json:"extra,omitempty"`
}

// OverallConfidence returns the aggregate confidence, or 0 when none was assigned.
func (e *ExtractedEntities) OverallConfidence() float64 {
	return e.ConfidenceScores[ConfidenceKeyOverall]
}

// HasCoreFacts reports whether any truck, route, or commercial fact was
// extracted. Transcripts without core facts match nothing.
func (e *ExtractedEntities) HasCoreFacts() bool {
	return e.TruckType != "" ||
		e.TruckLength != nil ||
		e.Tonnage != nil ||
		e.FromLocation != "" ||
		e.ToLocation != "" ||
		e.ExpectedRate != nil ||
		e.PhoneNumber != ""
}
