package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voicebridge/payhub/lib/responses"
	"github.com/voicebridge/payhub/lib/service"
)

// WebhookController : Webhook Controller struct
type WebhookController struct {
	svc *service.PayhubService
}

func NewWebhookController(svc *service.PayhubService) *WebhookController {
	return &WebhookController{svc: svc}
}

const signatureHeader = "X-Webhook-Signature"

// HandleWebhook : Provider webhook sink. Recognized payloads always get a
// 200 so the provider does not retry on business outcomes; non-2xx is
// reserved for infrastructure faults where a retry can actually help.
func (controller *WebhookController) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if secret := controller.svc.Config.WebhookSecret; secret != "" {
		if !verifySignature(secret, body, c.Request().Header.Get(signatureHeader)) {
			c.Logger().Errorf("Webhook signature verification failed")
			return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
		}
	}

	outcome, err := controller.svc.HandlePaymentWebhook(c.Request().Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedReference):
			return c.JSON(http.StatusOK, &responses.WebhookResultResponse{Rejected: true, Message: "unrecognized order reference"})
		case errors.Is(err, service.ErrOwnerMismatch), errors.Is(err, service.ErrInvoiceNotFound):
			return c.JSON(http.StatusOK, &responses.WebhookResultResponse{Rejected: true, Message: "order reference integrity check failed"})
		}
		// storage or ledger fault: let the provider retry
		return err
	}

	return c.JSON(http.StatusOK, outcomeResponse(outcome))
}

func outcomeResponse(outcome service.WebhookOutcome) *responses.WebhookResultResponse {
	switch outcome {
	case service.OutcomeCredited:
		return &responses.WebhookResultResponse{Credited: true}
	case service.OutcomeAlreadyCredited:
		return &responses.WebhookResultResponse{AlreadyCredited: true}
	case service.OutcomeFailed:
		return &responses.WebhookResultResponse{Failed: true}
	case service.OutcomeRejected:
		return &responses.WebhookResultResponse{Rejected: true}
	default:
		return &responses.WebhookResultResponse{Pending: true}
	}
}

func verifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
