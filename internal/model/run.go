package model

import "time"

// RunStatus tracks a processing run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ConfidenceLevel buckets an overall extraction confidence for reviewers.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Assessment is the business outcome of a run: the action to take on the
// best match plus the reasoning a reviewer needs to act on it.
type Assessment struct {
	Action        Recommendation  `json:"action"`
	Confidence    ConfidenceLevel `json:"confidence"`
	TopLoadID     string          `json:"top_load_id,omitempty"`
	Reasoning     []string        `json:"reasoning,omitempty"`
	ActionItems   []string        `json:"action_items,omitempty"`
	EstimatedRate *float64        `json:"estimated_rate,omitempty"`
}

// RunResult is the full output of one pipeline run.
type RunResult struct {
	Entities   *ExtractedEntities `json:"entities"`
	Matches    []MatchResult      `json:"matches,omitempty"`
	Assessment *Assessment        `json:"assessment,omitempty"`
}

// Run records one transcript processed through the pipeline.
type Run struct {
	ID           string     `json:"id"`
	TranscriptID string     `json:"transcript_id"`
	Transcript   Transcript `json:"transcript"`
	Status       RunStatus  `json:"status"`
	Result       *RunResult `json:"result,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
