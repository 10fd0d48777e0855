// Package model defines the shared data types exchanged between the
// extraction and matching stages.
package model

// ConversationTurn is a single utterance in a call transcript.
type ConversationTurn struct {
	Speaker   string   `json:"speaker"`
	Text      string   `json:"text"`
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// Transcript is an ordered call transcript plus call metadata. Turns are
// chronological; the extractor treats them as a bag partitioned by speaker role.
type Transcript struct {
	ID           string             `json:"id"`
	CallDuration *float64           `json:"call_duration,omitempty"`
	CallerNumber string             `json:"caller_number,omitempty"`
	LoadID       string             `json:"load_id,omitempty"`
	Language     string             `json:"language,omitempty"`
	Turns        []ConversationTurn `json:"turns"`
}

// Role is the classified conversational role of a speaker.
type Role string

const (
	RoleTrucker    Role = "trucker"
	RoleShipper    Role = "shipper"
	RoleDispatcher Role = "dispatcher"
	RoleUnknown    Role = "unknown"
)
