package model

// Recommendation is the disposition tier assigned to a scored load.
type Recommendation string

const (
	RecommendationAutoApprove Recommendation = "auto_approve"
	RecommendationHumanReview Recommendation = "human_review"
	RecommendationCreateLead  Recommendation = "create_lead"
	RecommendationReject      Recommendation = "reject"
)

// MatchResult is the scored compatibility between one entity record and one
// load. Constructed fresh per pair and never mutated.
type MatchResult struct {
	LoadID         string             `json:"load_id"`
	OverallScore   float64            `json:"overall_score"`
	DetailedScores map[string]float64 `json:"detailed_scores"`

	// MandatoryMatch is a hard gate (truck type and tonnage both >= 0.5),
	// surfaced for downstream filtering but not applied to the ranking.
	MandatoryMatch bool           `json:"mandatory_match"`
	Recommendation Recommendation `json:"recommendation"`

	MatchReasons    []string `json:"match_reasons,omitempty"`
	MismatchReasons []string `json:"mismatch_reasons,omitempty"`

	// PriceGap is nil when either price is unknown; "unknown" must stay
	// distinguishable from "zero gap".
	PriceGap              *float64 `json:"price_gap,omitempty"`
	NegotiationLikelihood float64  `json:"negotiation_likelihood"`
}
