package provider

// The provider's response schema is not contractually fixed, so values are
// probed through an ordered table of plausible field names and the first
// present, non-empty match wins. New field variants are a data change here,
// not a logic change.
var linkUrlFields = []string{
	"short_url",
	"url",
	"payment_link_url",
	"link_url",
	"href",
}

var linkIdFields = []string{
	"id",
	"plink_id",
	"payment_link_id",
	"link_id",
}

func firstStringField(payload map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if value, ok := payload[field].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
