package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// PaymentRecord : provider-tracking row, one per issued payment link.
//
// The order ref doubles as the idempotency key: all webhook processing is
// keyed by it, and the credit_state column is the sole authority on whether
// the ledger has been told to credit this order. Records are never deleted,
// they are the audit trail for reconciliation.
type PaymentRecord struct {
	ID                int64        `json:"id" bun:",pk,autoincrement"`
	OrderID           string       `json:"order_id" bun:",unique,notnull"`
	UserID            int64        `json:"user_id" bun:",notnull"`
	PaymentLinkID     string       `json:"payment_link_id" bun:",nullzero"`
	ProviderPaymentID string       `json:"provider_payment_id" bun:",nullzero"`
	Amount            int64        `json:"amount"`
	Currency          string       `json:"currency" bun:",nullzero"`
	Status            string       `json:"status" bun:",default:'pending'"`
	CreditState       int16        `json:"credit_state" bun:",notnull,default:0"`
	RawPayload        string       `json:"raw_payload,omitempty" bun:",nullzero"`
	CreatedAt         time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt         bun.NullTime `json:"updated_at"`
}

func (r *PaymentRecord) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		r.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*PaymentRecord)(nil)
