package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/voicebridge/payhub/common"
	"github.com/voicebridge/payhub/db/models"
)

// LedgerGateway is the billing side this core drives but does not own:
// invoice reads, the pending->failed transition, and the one credit-and-
// complete operation the webhook processor is allowed to invoke at most once
// per order. CreditAndComplete must be atomic with the invoice transition it
// performs.
type LedgerGateway interface {
	GetInvoice(ctx context.Context, invoiceId int64) (*models.Invoice, error)
	FailInvoice(ctx context.Context, invoiceId int64, detail string) error
	CreditAndComplete(ctx context.Context, invoiceId int64, amount int64) error
}

// BunLedger implements the gateway against the service's own database.
type BunLedger struct {
	DB *bun.DB
}

func (l *BunLedger) GetInvoice(ctx context.Context, invoiceId int64) (*models.Invoice, error) {
	var invoice models.Invoice

	err := l.DB.NewSelect().Model(&invoice).Where("id = ?", invoiceId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FailInvoice moves a pending invoice to failed. Failing an invoice that
// already left the pending state is a no-op, so duplicate failure webhooks
// are harmless.
func (l *BunLedger) FailInvoice(ctx context.Context, invoiceId int64, detail string) error {
	_, err := l.DB.NewUpdate().Model((*models.Invoice)(nil)).
		Set("state = ?", common.InvoiceStateFailed).
		Set("error_message = ?", detail).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND state = ?", invoiceId, common.InvoiceStatePending).
		Exec(ctx)
	return err
}

// CreditAndComplete transitions the invoice pending->completed and credits
// the owning user's balance in one transaction. If the invoice is no longer
// pending nothing is credited and ErrInvoiceNotPending is returned.
func (l *BunLedger) CreditAndComplete(ctx context.Context, invoiceId int64, amount int64) error {
	tx, err := l.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	var invoice models.Invoice
	err = tx.NewSelect().Model(&invoice).Where("id = ?", invoiceId).Limit(1).Scan(ctx)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvoiceNotFound
		}
		return err
	}

	res, err := tx.NewUpdate().Model((*models.Invoice)(nil)).
		Set("state = ?", common.InvoiceStateCompleted).
		Set("completed_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND state = ?", invoiceId, common.InvoiceStatePending).
		Exec(ctx)
	if err != nil {
		tx.Rollback()
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return ErrInvoiceNotPending
	}

	_, err = tx.NewUpdate().Model((*models.User)(nil)).
		Set("balance = balance + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", invoice.UserID).
		Exec(ctx)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
