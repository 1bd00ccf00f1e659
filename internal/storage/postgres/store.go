// Package postgres stores the expense collection in a PostgreSQL table
// through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"spendchart/internal/core"
	"spendchart/internal/storage"
)

var (
	_ storage.ExpenseStore = (*Store)(nil)
	_ storage.Pinger       = (*Store)(nil)
	_ storage.Closer       = (*Store)(nil)
)

// schema creates the table and upgrades tables that still hold whole cents.
var schema = []string{`
CREATE TABLE IF NOT EXISTS expenses (
    position     INTEGER PRIMARY KEY,
    id           TEXT    NOT NULL DEFAULT '',
    description  TEXT    NOT NULL DEFAULT '',
    amount       NUMERIC NOT NULL DEFAULT 0,
    date         TEXT    NOT NULL DEFAULT '',
    category     TEXT    NOT NULL DEFAULT ''
)`, `
ALTER TABLE expenses ADD COLUMN IF NOT EXISTS amount NUMERIC NOT NULL DEFAULT 0`, `
DO $$
BEGIN
    IF EXISTS (SELECT 1 FROM information_schema.columns
               WHERE table_name = 'expenses' AND column_name = 'amount_cents') THEN
        UPDATE expenses SET amount = amount_cents / 100.0;
        ALTER TABLE expenses DROP COLUMN amount_cents;
    END IF;
END $$`,
}

var columns = []string{"position", "id", "description", "amount", "date", "category"}

type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and makes sure the expenses table exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create expenses table: %w", err)
		}
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, description, amount, date, category FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e      core.Expense
			amount pgtype.Numeric
		)
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.Date, &e.Category); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Amount, err = moneyFromNumeric(amount); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) SaveAll(ctx context.Context, expenses []core.Expense) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	rows := make([][]any, len(expenses))
	for i, e := range expenses {
		rows[i] = []any{int32(i), e.ID, e.Description, numericFromMoney(e.Amount), e.Date, e.Category}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"expenses"}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy expenses: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	slog.DebugContext(ctx, "Expenses saved to Postgres", "count", len(expenses))
	return nil
}

func numericFromMoney(m core.Money) pgtype.Numeric {
	d := m.Decimal()
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func moneyFromNumeric(n pgtype.Numeric) (core.Money, error) {
	if !n.Valid || n.Int == nil {
		return core.Money{}, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return core.Money{}, fmt.Errorf("amount is not a finite number")
	}
	return core.NewMoney(decimal.NewFromBigInt(n.Int, n.Exp)), nil
}
