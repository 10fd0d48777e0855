package extract

import (
	"strings"

	"github.com/freightlink/match-cli/internal/model"
)

// Speaker-label lexicons, checked before any utterance cue.
var (
	truckerLabels    = []string{"trucker", "fo", "field officer", "driver"}
	shipperLabels    = []string{"shipper", "client", "customer", "booking"}
	dispatcherLabels = []string{"ti", "traffic incharge", "operator", "agent"}
)

// Utterance cues used when the label is uninformative.
var (
	truckerCues    = []string{"my truck", "our vehicle", "we have truck"}
	dispatcherCues = []string{"load available", "we have load", "rate is"}
	shipperCues    = []string{"need truck", "want vehicle", "cargo to move"}
)

// ClassifySpeaker assigns a conversational role from the speaker label and,
// failing that, from lexical cues in the utterance itself. First match wins.
func ClassifySpeaker(label, text string) model.Role {
	labelLower := strings.ToLower(label)

	if containsAny(labelLower, truckerLabels) {
		return model.RoleTrucker
	}
	if containsAny(labelLower, shipperLabels) {
		return model.RoleShipper
	}
	if containsAny(labelLower, dispatcherLabels) {
		return model.RoleDispatcher
	}

	textLower := strings.ToLower(text)
	if containsAny(textLower, truckerCues) {
		return model.RoleTrucker
	}
	if containsAny(textLower, dispatcherCues) {
		return model.RoleDispatcher
	}
	if containsAny(textLower, shipperCues) {
		return model.RoleShipper
	}

	return model.RoleUnknown
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
