package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Transaction is one journal entry in an account's points history.
type Transaction struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Amount       int64     `json:"amount"`
	Type         string    `json:"type"` // credit | debit
	Reference    string    `json:"reference,omitempty"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	TxCredit = "credit"
	TxDebit  = "debit"
)

// ErrNotFound indicates the account has no wallet.
var ErrNotFound = errors.New("account not found")

// InsufficientFundsError rejects a debit that would overdraw the account.
// Shortfall is how many points the account is missing.
type InsufficientFundsError struct {
	Shortfall int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient points: short by %d", e.Shortfall)
}

// Directory is the points ledger the marketplace settles against.
// Debit must be atomic with respect to concurrent debits on the same
// account: the balance can never go below zero.
type Directory interface {
	GetBalance(ctx context.Context, accountID string) (int64, error)
	Debit(ctx context.Context, accountID string, amount int64, reference string) error
	Credit(ctx context.Context, accountID string, amount int64, reference string) error
	Transactions(ctx context.Context, accountID string) ([]Transaction, error)
}
