package repository

import (
	"context"
	"fmt"

	"mikune/database"
	"mikune/service"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// ImportSnapshot copies every account from a snapshot store into PostgreSQL
// in one transaction. Records are migrated to the current schema on the way.
// Existing rows are overwritten.
func ImportSnapshot(ctx context.Context, db *database.DB, source SnapshotStore) (int, error) {
	snapshot, err := source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load snapshot: %w", err)
	}

	imported := 0
	err = db.WithTransaction(ctx, func(tx pgx.Tx) error {
		repo := newAccountRepositoryWithTx(tx)
		for userID, account := range snapshot {
			account.UserID = userID
			service.FillDefaults(account)
			if err := repo.Upsert(ctx, account); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import accounts: %w", err)
	}

	log.WithField("accounts", imported).Info("Imported economy snapshot")
	return imported, nil
}
