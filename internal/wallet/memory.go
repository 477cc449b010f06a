package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is the in-process ledger. All balance mutations run under one
// mutex, so a debit's check-and-subtract is indivisible.
type Memory struct {
	mu       sync.RWMutex
	balances map[string]int64
	journal  map[string][]Transaction
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[string]int64),
		journal:  make(map[string][]Transaction),
	}
}

// GetBalance returns the account's points balance.
func (m *Memory) GetBalance(_ context.Context, accountID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance, ok := m.balances[accountID]
	if !ok {
		return 0, ErrNotFound
	}
	return balance, nil
}

// Credit adds points to the account, creating the wallet on first use.
func (m *Memory) Credit(_ context.Context, accountID string, amount int64, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance := m.balances[accountID] + amount
	m.balances[accountID] = balance
	m.record(accountID, amount, TxCredit, reference, balance)
	return nil
}

// Debit removes points from the account. It fails with
// InsufficientFundsError (carrying the shortfall) rather than overdraw,
// and leaves the balance untouched on failure.
func (m *Memory) Debit(_ context.Context, accountID string, amount int64, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[accountID]
	if !ok {
		return ErrNotFound
	}
	if balance < amount {
		return &InsufficientFundsError{Shortfall: amount - balance}
	}

	balance -= amount
	m.balances[accountID] = balance
	m.record(accountID, amount, TxDebit, reference, balance)
	return nil
}

// Transactions returns the account's journal, newest first.
func (m *Memory) Transactions(_ context.Context, accountID string) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.journal[accountID]
	out := make([]Transaction, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// record appends a journal entry. Callers hold the write lock.
func (m *Memory) record(accountID string, amount int64, txType, reference string, balanceAfter int64) {
	m.journal[accountID] = append(m.journal[accountID], Transaction{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Amount:       amount,
		Type:         txType,
		Reference:    reference,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC(),
	})
}
