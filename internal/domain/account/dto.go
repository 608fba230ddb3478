package account

import (
	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

type MovementRequest struct {
	EmployeeID  string          `json:"employeeId" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
	Date        *string         `json:"date,omitempty" validate:"omitempty,date"`
}

func (r *MovementRequest) Validate() error {
	errs := validator.Struct(r)
	if !r.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	}
	return errs.OrNil()
}

type WeeklyDeductionRequest struct {
	EmployeeID            string          `json:"-"`
	WeeklyDeductionAmount decimal.Decimal `json:"weeklyDeductionAmount"`
}

func (r *WeeklyDeductionRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employeeId", "employeeId is required")
	}
	if r.WeeklyDeductionAmount.IsNegative() {
		errs.Add("weeklyDeductionAmount", "weeklyDeductionAmount must be non-negative")
	}
	return errs.OrNil()
}

type AccountResponse struct {
	ID                    string          `json:"id"`
	EmployeeID            string          `json:"employeeId"`
	Balance               decimal.Decimal `json:"balance"`
	WeeklyDeductionAmount decimal.Decimal `json:"weeklyDeductionAmount"`
	Debt                  decimal.Decimal `json:"debt"`
	UpdatedAt             string          `json:"updatedAt"`
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	CreatedAt    string          `json:"createdAt"`
}

type AccountDetailResponse struct {
	Account      AccountResponse       `json:"account"`
	Transactions []TransactionResponse `json:"transactions"`
}

type MovementResponse struct {
	Account     AccountResponse     `json:"account"`
	Transaction TransactionResponse `json:"transaction"`
}

func ToAccountResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:                    a.ID,
		EmployeeID:            a.EmployeeID,
		Balance:               a.Balance,
		WeeklyDeductionAmount: a.WeeklyDeductionAmount,
		Debt:                  a.Debt(),
		UpdatedAt:             a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ToTransactionResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		Description:  t.Description,
		Date:         utils.FormatDate(t.Date),
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
