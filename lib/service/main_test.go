package service

import (
	"context"
	"database/sql"
	"io"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/voicebridge/payhub/common"
	"github.com/voicebridge/payhub/db/models"
	"github.com/voicebridge/payhub/provider"
	"github.com/ziflex/lecho/v3"
)

func newTestService(t *testing.T) *PayhubService {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// one connection so the in-memory db is shared between goroutines
	sqldb.SetMaxOpenConns(1)

	bundb := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bundb.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Invoice)(nil),
		(*models.PaymentRecord)(nil),
	} {
		_, err := bundb.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	return &PayhubService{
		Config: &Config{
			MinPaymentAmount: 100,
			DefaultCurrency:  "INR",
		},
		DB:     bundb,
		Logger: lecho.New(io.Discard),
		Ledger: &BunLedger{DB: bundb},
	}
}

func createTestUser(t *testing.T, svc *PayhubService, login string) *models.User {
	t.Helper()
	user := &models.User{Login: login, Currency: "INR"}
	_, err := svc.DB.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}

func createTestPayment(t *testing.T, svc *PayhubService, userId, amount int64) (*models.Invoice, *models.PaymentRecord) {
	t.Helper()
	ctx := context.Background()
	invoice := &models.Invoice{
		UserID:   userId,
		Amount:   amount,
		Currency: "INR",
		State:    common.InvoiceStatePending,
	}
	_, err := svc.DB.NewInsert().Model(invoice).Exec(ctx)
	require.NoError(t, err)

	record := &models.PaymentRecord{
		OrderID:     EncodeOrderRef(userId, invoice.ID),
		UserID:      userId,
		Amount:      amount,
		Currency:    "INR",
		Status:      common.InvoiceStatePending,
		CreditState: common.CreditStateUncredited,
	}
	_, err = svc.DB.NewInsert().Model(record).Exec(ctx)
	require.NoError(t, err)
	return invoice, record
}

// countingLedger wraps a gateway and counts credit calls so tests can pin
// down the at-most-once property.
type countingLedger struct {
	LedgerGateway
	creditCalls int64
}

func (l *countingLedger) CreditAndComplete(ctx context.Context, invoiceId int64, amount int64) error {
	atomic.AddInt64(&l.creditCalls, 1)
	return l.LedgerGateway.CreditAndComplete(ctx, invoiceId, amount)
}

func (l *countingLedger) CreditCalls() int64 {
	return atomic.LoadInt64(&l.creditCalls)
}

// failingLedger refuses every credit so tests can pin down the posture
// after a ledger fault.
type failingLedger struct {
	LedgerGateway
	creditErr   error
	creditCalls int64
}

func (l *failingLedger) CreditAndComplete(ctx context.Context, invoiceId int64, amount int64) error {
	atomic.AddInt64(&l.creditCalls, 1)
	return l.creditErr
}

func (l *failingLedger) CreditCalls() int64 {
	return atomic.LoadInt64(&l.creditCalls)
}

type fakeLinkProvider struct {
	link       *provider.PaymentLink
	err        error
	lastParams provider.CreateLinkParams
	calls      int
}

func (p *fakeLinkProvider) CreatePaymentLink(ctx context.Context, params provider.CreateLinkParams) (*provider.PaymentLink, error) {
	p.calls++
	p.lastParams = params
	if p.err != nil {
		return p.link, p.err
	}
	return p.link, nil
}
