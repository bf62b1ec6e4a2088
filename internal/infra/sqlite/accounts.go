package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

// UpsertAccount creates an account or updates its balance/type by name.
func (s *Store) UpsertAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Type == "" {
		a.Type = "CURRENT"
	}
	if a.Currency == "" {
		a.Currency = "EUR"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, currency, balance)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			type     = excluded.type,
			currency = excluded.currency,
			balance  = excluded.balance
	`, a.ID, a.Name, a.Type, a.Currency, a.Balance.String())
	if err != nil {
		return domain.Account{}, fmt.Errorf("UpsertAccount: %w", err)
	}
	return a, nil
}

// Accounts lists all accounts, alphabetically.
func (s *Store) Accounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, currency, balance FROM accounts ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("Accounts: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var a domain.Account
		var balance string
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &balance); err != nil {
			return nil, fmt.Errorf("Accounts: scan: %w", err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("Accounts: bad balance %q: %w", balance, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AccountByName fetches one account.
func (s *Store) AccountByName(ctx context.Context, name string) (domain.Account, error) {
	var a domain.Account
	var balance string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, currency, balance FROM accounts WHERE name = ?
	`, name).Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return a, domain.ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("AccountByName: %w", err)
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return a, fmt.Errorf("AccountByName: bad balance %q: %w", balance, err)
	}
	return a, nil
}
