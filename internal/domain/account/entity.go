package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionPurchase         TransactionType = "purchase"
	TransactionPayment          TransactionType = "payment"
	TransactionPayrollDeduction TransactionType = "payroll_deduction"
)

// Account is the running balance of one employee. A negative balance is debt.
type Account struct {
	ID                    string
	EmployeeID            string
	Balance               decimal.Decimal
	WeeklyDeductionAmount decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Transaction struct {
	ID           string
	AccountID    string
	EmployeeID   string
	Type         TransactionType
	Amount       decimal.Decimal
	Description  string
	Date         time.Time
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Apply returns the balance after a movement: purchases decrease it, payments and deductions increase it.
func Apply(balance decimal.Decimal, t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == TransactionPurchase {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}

// Debt is the outstanding amount owed, zero when the balance is not negative.
func (a Account) Debt() decimal.Decimal {
	if a.Balance.IsNegative() {
		return a.Balance.Neg()
	}
	return decimal.Zero
}

// NextDeduction is min(weekly deduction, debt).
func (a Account) NextDeduction() decimal.Decimal {
	return decimal.Min(a.WeeklyDeductionAmount, a.Debt())
}
