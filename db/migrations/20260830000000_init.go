package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/voicebridge/payhub/db/models"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations IfNotExists/IfExists is used
otherwise it's going to result in errors.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if _, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Invoice)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.PaymentRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		// the upsert and the credit-state CAS both depend on this index
		if _, err := db.NewCreateIndex().Model((*models.PaymentRecord)(nil)).
			Index("payment_records_order_id_idx").
			Unique().
			IfNotExists().
			Column("order_id").
			Exec(ctx); err != nil {
			return err
		}

		return nil
	}, nil)
}
