package account

import (
	"context"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	// GetOrCreate returns the employee's account, creating it with a zero balance on first access.
	GetOrCreate(ctx context.Context, employeeID string) (Account, error)

	// LockByEmployee reads the account row FOR UPDATE; it must run inside a transaction.
	LockByEmployee(ctx context.Context, employeeID string) (Account, error)

	UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error
	SetWeeklyDeduction(ctx context.Context, accountID string, amount decimal.Decimal) (Account, error)
	InsertTransaction(ctx context.Context, tx Transaction) (Transaction, error)

	// ListTransactions returns movements newest first.
	ListTransactions(ctx context.Context, accountID string) ([]Transaction, error)
}
