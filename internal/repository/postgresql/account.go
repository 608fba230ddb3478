package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/account"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
)

const accountColumns = `id, employee_id, balance, weekly_deduction_amount, created_at, updated_at`

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) account.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

func scanAccount(row pgx.Row) (account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Balance, &a.WeeklyDeductionAmount, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetOrCreate implements account.AccountRepository.
func (r *accountRepositoryImpl) GetOrCreate(ctx context.Context, employeeID string) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO employee_accounts (employee_id)
		VALUES ($1)
		ON CONFLICT ON CONSTRAINT employee_accounts_employee_key
		DO UPDATE SET employee_id = EXCLUDED.employee_id
		RETURNING ` + accountColumns

	a, err := scanAccount(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		return account.Account{}, fmt.Errorf("failed to get account for employee %s: %w", employeeID, err)
	}
	return a, nil
}

// LockByEmployee implements account.AccountRepository.
func (r *accountRepositoryImpl) LockByEmployee(ctx context.Context, employeeID string) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAccount(q.QueryRow(ctx, `SELECT `+accountColumns+` FROM employee_accounts WHERE employee_id = $1 FOR UPDATE`, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("failed to lock account for employee %s: %w", employeeID, err)
	}
	return a, nil
}

// UpdateBalance implements account.AccountRepository.
func (r *accountRepositoryImpl) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employee_accounts SET balance = $2, updated_at = NOW() WHERE id = $1`, accountID, balance)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// SetWeeklyDeduction implements account.AccountRepository.
func (r *accountRepositoryImpl) SetWeeklyDeduction(ctx context.Context, accountID string, amount decimal.Decimal) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_accounts SET weekly_deduction_amount = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns

	a, err := scanAccount(q.QueryRow(ctx, query, accountID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("failed to set weekly deduction of account %s: %w", accountID, err)
	}
	return a, nil
}

// InsertTransaction implements account.AccountRepository.
func (r *accountRepositoryImpl) InsertTransaction(ctx context.Context, t account.Transaction) (account.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_account_transactions (account_id, employee_id, type, amount, description, date, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, account_id, employee_id, type, amount, description, date, balance_after, created_at`

	var created account.Transaction
	err := q.QueryRow(ctx, query, t.AccountID, t.EmployeeID, t.Type, t.Amount, t.Description, t.Date, t.BalanceAfter).Scan(
		&created.ID, &created.AccountID, &created.EmployeeID, &created.Type, &created.Amount,
		&created.Description, &created.Date, &created.BalanceAfter, &created.CreatedAt,
	)
	if err != nil {
		return account.Transaction{}, fmt.Errorf("failed to insert %s transaction: %w", t.Type, err)
	}
	return created, nil
}

// ListTransactions implements account.AccountRepository.
func (r *accountRepositoryImpl) ListTransactions(ctx context.Context, accountID string) ([]account.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, account_id, employee_id, type, amount, description, date, balance_after, created_at
		FROM employee_account_transactions
		WHERE account_id = $1
		ORDER BY date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []account.Transaction
	for rows.Next() {
		var t account.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.EmployeeID, &t.Type, &t.Amount,
			&t.Description, &t.Date, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
