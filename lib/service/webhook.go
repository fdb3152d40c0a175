package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/voicebridge/payhub/common"
	"github.com/voicebridge/payhub/db/models"
)

type WebhookOutcome string

const (
	OutcomePending         WebhookOutcome = "pending"
	OutcomeCredited        WebhookOutcome = "credited"
	OutcomeAlreadyCredited WebhookOutcome = "already_credited"
	OutcomeFailed          WebhookOutcome = "failed"
	OutcomeRejected        WebhookOutcome = "rejected"
)

// HandlePaymentWebhook drives the payment state machine for one provider
// delivery. Deliveries arrive unordered, duplicated and concurrently; the
// only serialization point is the conditional credit_state update below.
// Returned errors of the ErrMalformedReference / ErrOwnerMismatch family
// describe a rejected payload, anything else is an infrastructure fault.
func (svc *PayhubService) HandlePaymentWebhook(ctx context.Context, body []byte) (WebhookOutcome, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return OutcomeRejected, ErrMalformedReference
	}

	orderId, userId, invoiceId, ok := extractOrderRef(payload)
	if !ok {
		return OutcomeRejected, ErrMalformedReference
	}

	rawStatus := lookupString(payload, statusPaths)
	status := NormalizeStatus(rawStatus)

	svc.Logger.Infof("Webhook delivery order_id:%s status:%s (%s)", orderId, status, rawStatus)

	// Keep the audit trail current regardless of bucket: latest raw payload,
	// provider ids and amount land on the tracking row, while credit_state is
	// deliberately left alone here.
	if err := svc.upsertPaymentRecord(ctx, orderId, userId, payload, body, status); err != nil {
		return OutcomeRejected, err
	}

	switch status {
	case StatusUnknown:
		svc.Logger.Warnf("Unrecognized provider status order_id:%s status:%q", orderId, rawStatus)
		return OutcomePending, nil
	case StatusPending:
		return OutcomePending, nil
	case StatusFailure:
		return svc.handleFailure(ctx, orderId, invoiceId, payload)
	default:
		return svc.handleSuccess(ctx, orderId, userId, invoiceId)
	}
}

func (svc *PayhubService) upsertPaymentRecord(ctx context.Context, orderId string, userId int64, payload map[string]interface{}, body []byte, status CanonicalStatus) error {
	record := models.PaymentRecord{
		OrderID:           orderId,
		UserID:            userId,
		PaymentLinkID:     lookupString(payload, paymentLinkIdPaths),
		ProviderPaymentID: lookupString(payload, providerPaymentIdPaths),
		Amount:            lookupInt(payload, amountPaths),
		Status:            strings.ToLower(string(status)),
		CreditState:       common.CreditStateUncredited,
		RawPayload:        string(body),
	}

	_, err := svc.DB.NewInsert().Model(&record).
		On("CONFLICT (order_id) DO UPDATE").
		Set("raw_payload = EXCLUDED.raw_payload").
		Set("status = CASE WHEN credit_state = ? THEN status ELSE EXCLUDED.status END", common.CreditStateCredited).
		Set("provider_payment_id = COALESCE(EXCLUDED.provider_payment_id, provider_payment_id)").
		Set("payment_link_id = COALESCE(EXCLUDED.payment_link_id, payment_link_id)").
		Set("amount = CASE WHEN EXCLUDED.amount > 0 THEN EXCLUDED.amount ELSE amount END").
		Set("updated_at = ?", time.Now()).
		Exec(ctx)
	return err
}

func (svc *PayhubService) creditState(ctx context.Context, orderId string) (int16, error) {
	var state int16
	err := svc.DB.NewSelect().Model((*models.PaymentRecord)(nil)).
		Column("credit_state").
		Where("order_id = ?", orderId).
		Limit(1).
		Scan(ctx, &state)
	return state, err
}

func (svc *PayhubService) handleFailure(ctx context.Context, orderId string, invoiceId int64, payload map[string]interface{}) (WebhookOutcome, error) {
	// A failure event must not touch anything once the crediting protocol has
	// advanced for this order: a failure cannot un-credit.
	state, err := svc.creditState(ctx, orderId)
	if err != nil {
		return OutcomeRejected, err
	}
	switch state {
	case common.CreditStateCredited:
		return OutcomeAlreadyCredited, nil
	case common.CreditStateCrediting:
		return OutcomePending, nil
	}

	detail := lookupString(payload, statusPaths)
	if reason := lookupString(payload, [][]string{{"error_description"}, {"error_reason"}, {"payload", "payment", "entity", "error_description"}}); reason != "" {
		detail = fmt.Sprintf("%s: %s", detail, reason)
	}
	if err := svc.Ledger.FailInvoice(ctx, invoiceId, detail); err != nil {
		return OutcomeRejected, err
	}
	svc.Logger.Infof("Payment failed order_id:%s invoice_id:%v detail:%q", orderId, invoiceId, detail)
	return OutcomeFailed, nil
}

func (svc *PayhubService) handleSuccess(ctx context.Context, orderId string, userId, invoiceId int64) (WebhookOutcome, error) {
	// The critical section. The conditional update is a compare-and-swap
	// against the persisted record: of any number of racing deliveries only
	// one can move UNCREDITED -> CREDITING and own the credit attempt.
	res, err := svc.DB.NewUpdate().Model((*models.PaymentRecord)(nil)).
		Set("credit_state = ?", common.CreditStateCrediting).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ? AND credit_state = ?", orderId, common.CreditStateUncredited).
		Exec(ctx)
	if err != nil {
		return OutcomeRejected, err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return OutcomeRejected, err
	}
	if rowsAffected == 0 {
		state, err := svc.creditState(ctx, orderId)
		if err != nil {
			return OutcomeRejected, err
		}
		if state == common.CreditStateCredited {
			return OutcomeAlreadyCredited, nil
		}
		// another delivery is mid-flight; a later retry will observe the
		// eventual credited state
		return OutcomePending, nil
	}

	invoice, err := svc.Ledger.GetInvoice(ctx, invoiceId)
	if err != nil {
		// decoded fine but the ledger has no such invoice: foreign or forged
		// reference. The record stays in CREDITING for reconciliation.
		svc.Logger.Errorf("Invoice lookup failed order_id:%s invoice_id:%v %v", orderId, invoiceId, err)
		sentry.CaptureException(fmt.Errorf("webhook invoice lookup order_id:%s: %w", orderId, err))
		return OutcomeRejected, err
	}
	if invoice.UserID != userId {
		svc.Logger.Errorf("Owner mismatch order_id:%s invoice_user:%v decoded_user:%v", orderId, invoice.UserID, userId)
		sentry.CaptureException(fmt.Errorf("webhook owner mismatch order_id:%s: %w", orderId, ErrOwnerMismatch))
		return OutcomeRejected, ErrOwnerMismatch
	}

	switch invoice.State {
	case common.InvoiceStateCompleted:
		// credited through another path before this record advanced, or we
		// crashed after the ledger call and before finalizing
		if err := svc.markCredited(ctx, orderId); err != nil {
			return OutcomeRejected, err
		}
		return OutcomeAlreadyCredited, nil
	case common.InvoiceStateFailed:
		// late success after the invoice already failed. Never silently
		// re-open and credit; the record stays CREDITING for manual review.
		svc.Logger.Warnf("Success delivery for failed invoice order_id:%s invoice_id:%v", orderId, invoiceId)
		return OutcomeFailed, nil
	}

	if err := svc.Ledger.CreditAndComplete(ctx, invoiceId, invoice.Amount); err != nil {
		if errors.Is(err, ErrInvoiceNotPending) {
			// the invoice left pending between our read and the ledger call
			return svc.resolveSettledInvoice(ctx, orderId, invoiceId)
		}
		// The marker stays at CREDITING on purpose: reverting would let a
		// credit that actually landed be issued twice on retry.
		svc.Logger.Errorf("Ledger credit failed order_id:%s invoice_id:%v %v", orderId, invoiceId, err)
		sentry.CaptureException(fmt.Errorf("ledger credit order_id:%s: %w", orderId, err))
		return OutcomeRejected, fmt.Errorf("%w: %v", ErrLedgerCreditFailed, err)
	}

	if err := svc.markCredited(ctx, orderId); err != nil {
		return OutcomeRejected, err
	}
	svc.Logger.Infof("Credited order_id:%s invoice_id:%v amount:%v", orderId, invoiceId, invoice.Amount)
	return OutcomeCredited, nil
}

func (svc *PayhubService) resolveSettledInvoice(ctx context.Context, orderId string, invoiceId int64) (WebhookOutcome, error) {
	invoice, err := svc.Ledger.GetInvoice(ctx, invoiceId)
	if err != nil {
		return OutcomeRejected, err
	}
	if invoice.State == common.InvoiceStateCompleted {
		if err := svc.markCredited(ctx, orderId); err != nil {
			return OutcomeRejected, err
		}
		return OutcomeAlreadyCredited, nil
	}
	svc.Logger.Warnf("Success delivery for settled invoice order_id:%s state:%s", orderId, invoice.State)
	return OutcomeFailed, nil
}

func (svc *PayhubService) markCredited(ctx context.Context, orderId string) error {
	_, err := svc.DB.NewUpdate().Model((*models.PaymentRecord)(nil)).
		Set("credit_state = ?", common.CreditStateCredited).
		Set("status = ?", "success").
		Set("updated_at = ?", time.Now()).
		Where("order_id = ? AND credit_state = ?", orderId, common.CreditStateCrediting).
		Exec(ctx)
	return err
}
