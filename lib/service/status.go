package service

import "strings"

type CanonicalStatus string

const (
	StatusSuccess CanonicalStatus = "SUCCESS"
	StatusPending CanonicalStatus = "PENDING"
	StatusFailure CanonicalStatus = "FAILURE"
	StatusUnknown CanonicalStatus = "UNKNOWN"
)

// The three vocabularies are disjoint by construction. A token outside all
// of them maps to UNKNOWN and is never acted on: defaulting an unrecognized
// status to success would credit on garbage, defaulting it to failure would
// fail genuine payments delivered with a vocabulary we have not seen yet.
var successStatuses = map[string]struct{}{
	"paid":       {},
	"captured":   {},
	"success":    {},
	"successful": {},
	"completed":  {},
	"settled":    {},
}

var pendingStatuses = map[string]struct{}{
	"created":        {},
	"issued":         {},
	"pending":        {},
	"processing":     {},
	"authorized":     {},
	"partially_paid": {},
}

var failureStatuses = map[string]struct{}{
	"failed":    {},
	"failure":   {},
	"expired":   {},
	"cancelled": {},
	"canceled":  {},
	"declined":  {},
	"reversed":  {},
}

func NormalizeStatus(providerStatus string) CanonicalStatus {
	token := strings.ToLower(strings.TrimSpace(providerStatus))
	if _, ok := successStatuses[token]; ok {
		return StatusSuccess
	}
	if _, ok := pendingStatuses[token]; ok {
		return StatusPending
	}
	if _, ok := failureStatuses[token]; ok {
		return StatusFailure
	}
	return StatusUnknown
}
