package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/account"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
)

type AccountServiceImpl struct {
	account.AccountRepository
	employeeRepo employee.EmployeeRepository
	txManager    postgresql.TxManager
	loc          *time.Location
	now          func() time.Time
}

func NewAccountService(
	accountRepo account.AccountRepository,
	employeeRepo employee.EmployeeRepository,
	txManager postgresql.TxManager,
	loc *time.Location,
) account.AccountService {
	if loc == nil {
		loc = time.UTC
	}
	return &AccountServiceImpl{
		AccountRepository: accountRepo,
		employeeRepo:      employeeRepo,
		txManager:         txManager,
		loc:               loc,
		now:               time.Now,
	}
}

// GetByEmployee implements account.AccountService.
func (s *AccountServiceImpl) GetByEmployee(ctx context.Context, employeeID string) (account.AccountDetailResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return account.AccountDetailResponse{}, err
	}

	acc, err := s.AccountRepository.GetOrCreate(ctx, employeeID)
	if err != nil {
		return account.AccountDetailResponse{}, err
	}
	txs, err := s.AccountRepository.ListTransactions(ctx, acc.ID)
	if err != nil {
		return account.AccountDetailResponse{}, err
	}

	resp := account.AccountDetailResponse{
		Account:      account.ToAccountResponse(acc),
		Transactions: make([]account.TransactionResponse, 0, len(txs)),
	}
	for _, t := range txs {
		resp.Transactions = append(resp.Transactions, account.ToTransactionResponse(t))
	}
	return resp, nil
}

// SetWeeklyDeduction implements account.AccountService.
func (s *AccountServiceImpl) SetWeeklyDeduction(ctx context.Context, req account.WeeklyDeductionRequest) (account.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return account.AccountResponse{}, err
	}

	acc, err := s.AccountRepository.GetOrCreate(ctx, req.EmployeeID)
	if err != nil {
		return account.AccountResponse{}, err
	}
	updated, err := s.AccountRepository.SetWeeklyDeduction(ctx, acc.ID, req.WeeklyDeductionAmount)
	if err != nil {
		return account.AccountResponse{}, err
	}
	return account.ToAccountResponse(updated), nil
}

// AddPurchase implements account.AccountService.
func (s *AccountServiceImpl) AddPurchase(ctx context.Context, req account.MovementRequest) (account.MovementResponse, error) {
	return s.addMovement(ctx, req, account.TransactionPurchase)
}

// AddPayment implements account.AccountService.
func (s *AccountServiceImpl) AddPayment(ctx context.Context, req account.MovementRequest) (account.MovementResponse, error) {
	return s.addMovement(ctx, req, account.TransactionPayment)
}

// ApplyPayrollDeduction implements account.AccountService.
func (s *AccountServiceImpl) ApplyPayrollDeduction(ctx context.Context, employeeID string) (account.MovementResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return account.MovementResponse{}, err
	}

	var resp account.MovementResponse
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.lock(ctx, employeeID)
		if err != nil {
			return err
		}
		amount := acc.NextDeduction()
		if !amount.IsPositive() {
			return account.ErrNothingToDeduct
		}
		resp, err = s.append(ctx, acc, account.TransactionPayrollDeduction, amount, "Descuento por recibo de sueldo", utils.Today(s.now(), s.loc))
		return err
	})
	if err != nil {
		return account.MovementResponse{}, err
	}
	return resp, nil
}

func (s *AccountServiceImpl) addMovement(ctx context.Context, req account.MovementRequest, kind account.TransactionType) (account.MovementResponse, error) {
	if err := req.Validate(); err != nil {
		return account.MovementResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return account.MovementResponse{}, err
	}

	date := utils.Today(s.now(), s.loc)
	if parsed, err := utils.ParseOptionalDate(req.Date); err != nil {
		return account.MovementResponse{}, err
	} else if parsed != nil {
		date = *parsed
	}

	var resp account.MovementResponse
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.lock(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		resp, err = s.append(ctx, acc, kind, req.Amount, strings.TrimSpace(req.Description), date)
		return err
	})
	if err != nil {
		return account.MovementResponse{}, err
	}
	return resp, nil
}

// lock makes sure the account exists, then reads it FOR UPDATE.
func (s *AccountServiceImpl) lock(ctx context.Context, employeeID string) (account.Account, error) {
	if _, err := s.AccountRepository.GetOrCreate(ctx, employeeID); err != nil {
		return account.Account{}, err
	}
	return s.AccountRepository.LockByEmployee(ctx, employeeID)
}

func (s *AccountServiceImpl) append(ctx context.Context, acc account.Account, kind account.TransactionType, amount decimal.Decimal, description string, date time.Time) (account.MovementResponse, error) {
	balance := account.Apply(acc.Balance, kind, amount)

	tx, err := s.AccountRepository.InsertTransaction(ctx, account.Transaction{
		AccountID:    acc.ID,
		EmployeeID:   acc.EmployeeID,
		Type:         kind,
		Amount:       amount,
		Description:  description,
		Date:         date,
		BalanceAfter: balance,
	})
	if err != nil {
		return account.MovementResponse{}, err
	}
	if err := s.AccountRepository.UpdateBalance(ctx, acc.ID, balance); err != nil {
		return account.MovementResponse{}, err
	}

	acc.Balance = balance
	slog.Info("Account movement recorded", "account_id", acc.ID, "type", kind, "amount", amount.String(), "balance", balance.String())
	return account.MovementResponse{
		Account:     account.ToAccountResponse(acc),
		Transaction: account.ToTransactionResponse(tx),
	}, nil
}
