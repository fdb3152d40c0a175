package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Invoice : Invoice Model
//
// Owned by the billing ledger. This service only ever moves an invoice from
// pending to completed (through the ledger gateway) or from pending to
// failed; a terminal state is never overwritten.
type Invoice struct {
	ID           int64        `json:"id" bun:",pk,autoincrement"`
	UserID       int64        `json:"user_id" bun:",notnull" validate:"required"`
	User         *User        `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	Amount       int64        `json:"amount" bun:",notnull" validate:"gte=0"`
	Currency     string       `json:"currency" bun:",nullzero"`
	State        string       `json:"state" bun:",default:'pending'"`
	ErrorMessage string       `json:"error_message,omitempty" bun:",nullzero"`
	CreatedAt    time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    bun.NullTime `json:"updated_at"`
	CompletedAt  bun.NullTime `json:"completed_at"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
