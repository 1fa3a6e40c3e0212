package repository

import (
	"context"
	"fmt"

	"chipbot/database"
	"chipbot/domain/entities"
	"chipbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `
	user_id,
	display_name,
	balance,
	last_daily,
	last_weekly,
	last_monthly,
	lootboxes,
	inventory,
	created_at,
	updated_at`

// AccountRepository implements the AccountRepository interface over Postgres
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// NewAccountRepositoryScoped creates a new account repository bound to a transaction
func NewAccountRepositoryScoped(tx Queryable) interfaces.AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.UserID,
		&account.DisplayName,
		&account.Balance,
		&account.LastDaily,
		&account.LastWeekly,
		&account.LastMonthly,
		&account.Lootboxes,
		&account.Inventory,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByUserID retrieves an account by user ID, or nil when none exists
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return account, nil
}

// GetByUserIDForUpdate retrieves an account and takes a row lock for the
// duration of the surrounding transaction. Balance mutations go through this
// so concurrent operations on the same account serialize.
func (r *AccountRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account for user %d: %w", userID, err)
	}
	return account, nil
}

// Create creates a new account with the starting balance
func (r *AccountRepository) Create(ctx context.Context, userID int64, displayName string, startingBalance int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (user_id, display_name, balance)
		VALUES ($1, $2, $3)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, displayName, startingBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account for user %d: %w", userID, err)
	}
	return account, nil
}

// Update persists the full mutable state of an account
func (r *AccountRepository) Update(ctx context.Context, account *entities.Account) error {
	query := `
		UPDATE accounts
		SET display_name = $2,
			balance = $3,
			last_daily = $4,
			last_weekly = $5,
			last_monthly = $6,
			lootboxes = $7,
			inventory = $8,
			updated_at = NOW()
		WHERE user_id = $1
	`
	result, err := r.q.Exec(ctx, query,
		account.UserID,
		account.DisplayName,
		account.Balance,
		account.LastDaily,
		account.LastWeekly,
		account.LastMonthly,
		account.Lootboxes,
		account.Inventory,
	)
	if err != nil {
		return fmt.Errorf("failed to update account for user %d: %w", account.UserID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for user %d not found", account.UserID)
	}
	return nil
}

// UpdateDisplayName refreshes the cached display name
func (r *AccountRepository) UpdateDisplayName(ctx context.Context, userID int64, displayName string) error {
	query := `
		UPDATE accounts
		SET display_name = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.q.Exec(ctx, query, userID, displayName); err != nil {
		return fmt.Errorf("failed to update display name for user %d: %w", userID, err)
	}
	return nil
}

// GetTopByBalance returns the richest accounts, wealthiest first
func (r *AccountRepository) GetTopByBalance(ctx context.Context, limit int) ([]*entities.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY balance DESC, user_id ASC
		LIMIT $1
	`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}
