package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicebridge/payhub/common"
	"github.com/voicebridge/payhub/db/models"
	"github.com/voicebridge/payhub/provider"
)

func TestIssuePaymentLink(t *testing.T) {
	svc := newTestService(t)
	fake := &fakeLinkProvider{link: &provider.PaymentLink{ID: "plink_1", URL: "https://pay.test/plink_1"}}
	svc.Provider = fake
	ctx := context.Background()

	user := createTestUser(t, svc, "user42")

	result, err := svc.IssuePaymentLink(ctx, user.ID, 5000, "")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/plink_1", result.Url)

	userId, invoiceId, err := DecodeOrderRef(result.OrderId)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userId)
	assert.Equal(t, result.InvoiceId, invoiceId)

	// the ref travels both as structured metadata and inside the note
	assert.Equal(t, result.OrderId, fake.lastParams.ReferenceId)
	assert.Contains(t, fake.lastParams.Description, result.OrderId)
	assert.Equal(t, "INR", fake.lastParams.Currency)

	invoice := fetchInvoice(t, svc, invoiceId)
	assert.Equal(t, common.InvoiceStatePending, invoice.State)

	record := fetchRecord(t, svc, result.OrderId)
	assert.Equal(t, common.CreditStateUncredited, record.CreditState)
	assert.Equal(t, "plink_1", record.PaymentLinkID)
	assert.EqualValues(t, 5000, record.Amount)
}

func TestIssuePaymentLinkAmountBounds(t *testing.T) {
	svc := newTestService(t)
	svc.Provider = &fakeLinkProvider{link: &provider.PaymentLink{URL: "https://pay.test/x"}}
	svc.Config.MaxPaymentAmount = 100000
	ctx := context.Background()

	user := createTestUser(t, svc, "user42")

	_, err := svc.IssuePaymentLink(ctx, user.ID, 1, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.IssuePaymentLink(ctx, user.ID, 100001, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// no invoice was created for rejected amounts
	count, err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIssuePaymentLinkProviderFailure(t *testing.T) {
	svc := newTestService(t)
	fake := &fakeLinkProvider{
		link: &provider.PaymentLink{Raw: map[string]interface{}{"error": "rate limited"}},
		err:  provider.ErrNoLinkUrl,
	}
	svc.Provider = fake
	ctx := context.Background()

	user := createTestUser(t, svc, "user42")

	_, err := svc.IssuePaymentLink(ctx, user.ID, 5000, "")
	assert.ErrorIs(t, err, ErrLinkCreationFailed)

	// the invoice exists, failed, with the diagnostic captured
	var invoice models.Invoice
	require.NoError(t, svc.DB.NewSelect().Model(&invoice).Where("user_id = ?", user.ID).Limit(1).Scan(ctx))
	assert.Equal(t, common.InvoiceStateFailed, invoice.State)
	assert.Contains(t, invoice.ErrorMessage, "rate limited")

	// no tracking record is created on a failed issuance
	count, err := svc.DB.NewSelect().Model((*models.PaymentRecord)(nil)).Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}
