package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/voicebridge/payhub/db/models"
	"github.com/voicebridge/payhub/provider"
	"github.com/ziflex/lecho/v3"
)

// PaymentLinkProvider is the outbound side of the integration: one call that
// turns an amount plus an order reference into a hosted payment link.
type PaymentLinkProvider interface {
	CreatePaymentLink(ctx context.Context, params provider.CreateLinkParams) (*provider.PaymentLink, error)
}

type PayhubService struct {
	Config   *Config
	DB       *bun.DB
	Logger   *lecho.Logger
	Provider PaymentLinkProvider
	Ledger   LedgerGateway
}

func (svc *PayhubService) FindUser(ctx context.Context, userId int64) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (svc *PayhubService) CurrentUserBalance(ctx context.Context, userId int64) (int64, error) {
	user, err := svc.FindUser(ctx, userId)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

func (svc *PayhubService) FindPaymentRecord(ctx context.Context, orderId string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord

	err := svc.DB.NewSelect().Model(&record).Where("order_id = ?", orderId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
