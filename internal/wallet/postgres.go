package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Directory backed by a wallets table, for deployments
// where balances must survive restarts. Debits use a conditional UPDATE
// so concurrent debits on one account serialize in the database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres prepares the schema and returns the ledger.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS wallets (
            account_id TEXT PRIMARY KEY,
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
        );
        CREATE TABLE IF NOT EXISTS wallet_transactions (
            id UUID PRIMARY KEY,
            account_id TEXT NOT NULL,
            amount BIGINT NOT NULL,
            type TEXT NOT NULL CHECK (type IN ('credit','debit')),
            reference TEXT,
            balance_after BIGINT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_wallet_tx_account ON wallet_transactions(account_id, created_at)`)
	if err != nil {
		return nil, fmt.Errorf("ensure wallet schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// GetBalance returns the account's points balance.
func (p *Postgres) GetBalance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := p.pool.QueryRow(ctx,
		`SELECT balance FROM wallets WHERE account_id = $1`, accountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	return balance, nil
}

// Credit adds points, creating the wallet row on first use.
func (p *Postgres) Credit(ctx context.Context, accountID string, amount int64, reference string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin credit: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, `
        INSERT INTO wallets (account_id, balance) VALUES ($1, $2)
        ON CONFLICT (account_id) DO UPDATE SET balance = wallets.balance + $2
        RETURNING balance`,
		accountID, amount,
	).Scan(&balance)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}

	if err := p.journal(ctx, tx, accountID, amount, TxCredit, reference, balance); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Debit removes points; the WHERE clause makes the overdraw check and
// the subtraction one statement.
func (p *Postgres) Debit(ctx context.Context, accountID string, amount int64, reference string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin debit: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, `
        UPDATE wallets SET balance = balance - $1
        WHERE account_id = $2 AND balance >= $1
        RETURNING balance`,
		amount, accountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, berr := p.GetBalance(ctx, accountID)
			if berr != nil {
				return berr
			}
			return &InsufficientFundsError{Shortfall: amount - current}
		}
		return fmt.Errorf("debit wallet: %w", err)
	}

	if err := p.journal(ctx, tx, accountID, amount, TxDebit, reference, balance); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Transactions returns the account's journal, newest first.
func (p *Postgres) Transactions(ctx context.Context, accountID string) ([]Transaction, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id::text, account_id, amount, type, COALESCE(reference, ''), balance_after, created_at
        FROM wallet_transactions WHERE account_id = $1 ORDER BY created_at DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type, &t.Reference, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Postgres) journal(ctx context.Context, tx pgx.Tx, accountID string, amount int64, txType, reference string, balanceAfter int64) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO wallet_transactions (id, account_id, amount, type, reference, balance_after)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		uuid.New().String(), accountID, amount, txType, reference, balanceAfter)
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}
