package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mikune/database"
	"mikune/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository stores each account as a JSONB document keyed by user id
type AccountRepository struct {
	q         queryable
	forUpdate bool
}

// NewAccountRepository creates a new account repository on the pool
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates an account repository that locks rows it reads
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx, forUpdate: true}
}

// Get retrieves an account, returning nil when it does not exist
func (r *AccountRepository) Get(ctx context.Context, userID string) (*models.Account, error) {
	query := `SELECT data FROM accounts WHERE user_id = $1`
	if r.forUpdate {
		query += ` FOR UPDATE`
	}

	var data []byte
	err := r.q.QueryRow(ctx, query, userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	account, err := decodeAccount(userID, data)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Upsert creates or fully replaces an account
func (r *AccountRepository) Upsert(ctx context.Context, account *models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account %s: %w", account.UserID, err)
	}

	query := `
		INSERT INTO accounts (user_id, data)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, account.UserID, data); err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", account.UserID, err)
	}
	return nil
}

// List returns every stored account ordered by user id
func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.q.Query(ctx, `SELECT user_id, data FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var userID string
		var data []byte
		if err := rows.Scan(&userID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account, err := decodeAccount(userID, data)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func decodeAccount(userID string, data []byte) (*models.Account, error) {
	var account models.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account %s: %w", userID, err)
	}
	account.UserID = userID
	return &account, nil
}
