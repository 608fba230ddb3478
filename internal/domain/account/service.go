package account

import "context"

type AccountService interface {
	GetByEmployee(ctx context.Context, employeeID string) (AccountDetailResponse, error)
	SetWeeklyDeduction(ctx context.Context, req WeeklyDeductionRequest) (AccountResponse, error)

	// AddPurchase and AddPayment lock the account, append the movement and persist the new balance atomically.
	AddPurchase(ctx context.Context, req MovementRequest) (MovementResponse, error)
	AddPayment(ctx context.Context, req MovementRequest) (MovementResponse, error)

	// ApplyPayrollDeduction appends min(weekly deduction, debt) as a payroll deduction.
	ApplyPayrollDeduction(ctx context.Context, employeeID string) (MovementResponse, error)
}
