package service

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Webhook payloads have no fixed shape either: the same provider delivers
// flat link events and nested entity envelopes depending on the event type.
// Each value is probed through an ordered table of lookup paths, first
// present non-empty match wins.
var orderRefPaths = [][]string{
	{"reference_id"},
	{"order_id"},
	{"payload", "payment_link", "entity", "reference_id"},
	{"payload", "order", "entity", "reference_id"},
}

var statusPaths = [][]string{
	{"status"},
	{"payload", "payment_link", "entity", "status"},
	{"payload", "payment", "entity", "status"},
}

var providerPaymentIdPaths = [][]string{
	{"payment_id"},
	{"payload", "payment", "entity", "id"},
}

var paymentLinkIdPaths = [][]string{
	{"payment_link_id"},
	{"payload", "payment_link", "entity", "id"},
}

var amountPaths = [][]string{
	{"amount"},
	{"payload", "payment_link", "entity", "amount"},
	{"payload", "payment", "entity", "amount"},
}

// Last-resort recovery path: the order ref is also embedded in the
// human-readable note at link-creation time, so if all structured fields
// were stripped we can still fish it out of the free text.
var notePaths = [][]string{
	{"description"},
	{"note"},
	{"payload", "payment_link", "entity", "description"},
}

var embeddedOrderRefPattern = regexp.MustCompile(orderRefPrefix + `-[0-9]+-[0-9]+`)

func lookupValue(payload map[string]interface{}, path []string) (interface{}, bool) {
	var current interface{} = payload
	for _, key := range path {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func lookupString(payload map[string]interface{}, paths [][]string) string {
	for _, path := range paths {
		value, ok := lookupValue(payload, path)
		if !ok {
			continue
		}
		if str, ok := value.(string); ok && str != "" {
			return str
		}
	}
	return ""
}

func lookupInt(payload map[string]interface{}, paths [][]string) int64 {
	for _, path := range paths {
		value, ok := lookupValue(payload, path)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			return int64(v)
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// extractOrderRef probes the structured fields first and falls back to the
// note text pattern. Returns the first candidate that actually parses.
func extractOrderRef(payload map[string]interface{}) (string, int64, int64, bool) {
	for _, path := range orderRefPaths {
		value, ok := lookupValue(payload, path)
		if !ok {
			continue
		}
		ref, ok := value.(string)
		if !ok {
			continue
		}
		if userId, invoiceId, err := DecodeOrderRef(ref); err == nil {
			return ref, userId, invoiceId, true
		}
	}
	for _, path := range notePaths {
		value, ok := lookupValue(payload, path)
		if !ok {
			continue
		}
		note, ok := value.(string)
		if !ok {
			continue
		}
		if ref := embeddedOrderRefPattern.FindString(note); ref != "" {
			if userId, invoiceId, err := DecodeOrderRef(ref); err == nil {
				return ref, userId, invoiceId, true
			}
		}
	}
	return "", 0, 0, false
}
