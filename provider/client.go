package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ziflex/lecho/v3"
)

var ErrNoLinkUrl = fmt.Errorf("no payment link url in provider response")

type CreateLinkParams struct {
	Amount      int64
	Currency    string
	ReferenceId string
	Description string
	CallbackUrl string
}

type PaymentLink struct {
	ID  string
	URL string
	// Raw keeps the provider response for diagnostics when extraction fails
	Raw map[string]interface{}
}

type Client struct {
	baseUrl    string
	keyId      string
	keySecret  string
	httpClient *http.Client
	logger     *lecho.Logger
}

func NewClient(baseUrl, keyId, keySecret string, timeout time.Duration, logger *lecho.Logger) *Client {
	return &Client{
		baseUrl:    strings.TrimSuffix(baseUrl, "/"),
		keyId:      keyId,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreatePaymentLink calls the provider's link-creation resource. The order
// reference travels twice: as the structured reference_id and inside the
// human-readable description, so it survives even if the provider strips
// structured metadata somewhere along the way.
func (c *Client) CreatePaymentLink(ctx context.Context, params CreateLinkParams) (*PaymentLink, error) {
	requestBody := map[string]interface{}{
		"amount":       params.Amount,
		"currency":     params.Currency,
		"reference_id": params.ReferenceId,
		"description":  params.Description,
	}
	if params.CallbackUrl != "" {
		requestBody["callback_url"] = params.CallbackUrl
		requestBody["callback_method"] = "post"
	}

	var responseBody map[string]interface{}
	operation := func() error {
		body, err := c.post(ctx, "/payment_links", requestBody)
		if err != nil {
			return err
		}
		responseBody = body
		return nil
	}
	// retry transient provider faults a couple of times, then fail closed
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	link := &PaymentLink{
		ID:  firstStringField(responseBody, linkIdFields),
		URL: firstStringField(responseBody, linkUrlFields),
		Raw: responseBody,
	}
	if link.URL == "" {
		c.logger.Errorf("No link url in provider response reference_id:%s response:%v", params.ReferenceId, responseBody)
		return link, ErrNoLinkUrl
	}
	return link, nil
}

func (c *Client) post(ctx context.Context, path string, payload map[string]interface{}) (map[string]interface{}, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+path, buf)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyId, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, body)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, backoff.Permanent(fmt.Errorf("provider returned %d: %s", resp.StatusCode, body))
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("undecodable provider response: %v", err))
	}
	return decoded, nil
}
