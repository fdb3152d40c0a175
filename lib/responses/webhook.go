package responses

// WebhookResultResponse mirrors one processing outcome back to the provider.
// Recognized payloads always get a 200 with one of these flags set so
// business outcomes never trigger the provider's retry behavior.
type WebhookResultResponse struct {
	Pending         bool   `json:"pending,omitempty"`
	Credited        bool   `json:"credited,omitempty"`
	AlreadyCredited bool   `json:"alreadyCredited,omitempty"`
	Failed          bool   `json:"failed,omitempty"`
	Rejected        bool   `json:"rejected,omitempty"`
	Message         string `json:"message,omitempty"`
}
