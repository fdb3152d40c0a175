package service

import (
	"context"
	"fmt"

	"github.com/voicebridge/payhub/common"
	"github.com/voicebridge/payhub/db/models"
	"github.com/voicebridge/payhub/provider"
)

type IssueLinkResult struct {
	Url       string `json:"url"`
	OrderId   string `json:"order_id"`
	InvoiceId int64  `json:"invoice_id"`
}

// IssuePaymentLink creates a pending invoice, asks the provider for a hosted
// payment link bound to it and persists the tracking record the webhook
// processor will later key on. A retried call creates a fresh invoice and
// order ref; dedupe of retries is the caller's job.
func (svc *PayhubService) IssuePaymentLink(ctx context.Context, userId int64, amount int64, currency string) (*IssueLinkResult, error) {
	if amount < svc.Config.MinPaymentAmount {
		return nil, ErrInvalidAmount
	}
	if svc.Config.MaxPaymentAmount > 0 && amount > svc.Config.MaxPaymentAmount {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = svc.Config.DefaultCurrency
	}

	invoice := models.Invoice{
		UserID:   userId,
		Amount:   amount,
		Currency: currency,
		State:    common.InvoiceStatePending,
	}
	// save the invoice first so there is a record in case the provider call fails
	_, err := svc.DB.NewInsert().Model(&invoice).Exec(ctx)
	if err != nil {
		return nil, err
	}

	orderId := EncodeOrderRef(userId, invoice.ID)

	link, err := svc.Provider.CreatePaymentLink(ctx, provider.CreateLinkParams{
		Amount:      amount,
		Currency:    currency,
		ReferenceId: orderId,
		Description: fmt.Sprintf("Balance top-up %s", orderId),
		CallbackUrl: svc.Config.CallbackBaseUrl,
	})
	if err != nil {
		svc.Logger.Errorf("Payment link creation failed user_id:%v invoice_id:%v %v", userId, invoice.ID, err)
		detail := err.Error()
		if link != nil && link.Raw != nil {
			detail = fmt.Sprintf("%v: %v", err, link.Raw)
		}
		if failErr := svc.Ledger.FailInvoice(ctx, invoice.ID, detail); failErr != nil {
			svc.Logger.Errorf("Could not mark invoice failed invoice_id:%v %v", invoice.ID, failErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrLinkCreationFailed, err)
	}

	record := models.PaymentRecord{
		OrderID:       orderId,
		UserID:        userId,
		PaymentLinkID: link.ID,
		Amount:        amount,
		Currency:      currency,
		Status:        common.InvoiceStatePending,
		CreditState:   common.CreditStateUncredited,
	}
	_, err = svc.DB.NewInsert().Model(&record).Exec(ctx)
	if err != nil {
		return nil, err
	}

	svc.Logger.Infof("Issued payment link order_id:%s user_id:%v invoice_id:%v link_id:%s", orderId, userId, invoice.ID, link.ID)

	return &IssueLinkResult{
		Url:       link.URL,
		OrderId:   orderId,
		InvoiceId: invoice.ID,
	}, nil
}
