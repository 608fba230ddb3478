package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/payroll"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

const receiptColumns = `p.id, p.employee_id, p.period, p.payment_date, p.signed, p.signed_date, p.has_presentismo,
	p.extra_hours, p.other_additions, p.discounts, p.advance_requested, p.advance_date, p.advance_amount,
	p.net_amount, p.notes, p.created_at, p.updated_at`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.ReceiptRepository {
	return &payrollRepositoryImpl{db: db}
}

func receiptScanTargets(p *payroll.Receipt) []interface{} {
	return []interface{}{
		&p.ID, &p.EmployeeID, &p.Period, &p.PaymentDate, &p.Signed, &p.SignedDate, &p.HasPresentismo,
		&p.ExtraHours, &p.OtherAdditions, &p.Discounts, &p.AdvanceRequested, &p.AdvanceDate, &p.AdvanceAmount,
		&p.NetAmount, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanReceipt(row pgx.Row) (payroll.Receipt, error) {
	var p payroll.Receipt
	err := row.Scan(receiptScanTargets(&p)...)
	return p, err
}

func scanReceiptWithEmployee(row pgx.Row) (payroll.ReceiptWithEmployee, error) {
	var p payroll.ReceiptWithEmployee
	targets := append(receiptScanTargets(&p.Receipt),
		&p.Employee.ID, &p.Employee.Nombre, &p.Employee.Apellido, &p.Employee.Legajo)
	err := row.Scan(targets...)
	return p, err
}

func mapReceiptWriteError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == "payroll_receipts_employee_period_key" {
		return payroll.ErrReceiptAlreadyExists
	}
	return err
}

// Create implements payroll.ReceiptRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Receipt) (payroll.Receipt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_receipts AS p (
			employee_id, period, payment_date, signed, signed_date, has_presentismo, extra_hours,
			other_additions, discounts, advance_requested, advance_date, advance_amount, net_amount, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + receiptColumns

	created, err := scanReceipt(q.QueryRow(ctx, query,
		p.EmployeeID, p.Period, p.PaymentDate, p.Signed, p.SignedDate, p.HasPresentismo, p.ExtraHours,
		p.OtherAdditions, p.Discounts, p.AdvanceRequested, p.AdvanceDate, p.AdvanceAmount, p.NetAmount, p.Notes,
	))
	if err != nil {
		return payroll.Receipt{}, mapReceiptWriteError(err)
	}
	return created, nil
}

// GetByID implements payroll.ReceiptRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Receipt, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanReceipt(q.QueryRow(ctx, `SELECT `+receiptColumns+` FROM payroll_receipts p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Receipt{}, payroll.ErrReceiptNotFound
		}
		return payroll.Receipt{}, fmt.Errorf("failed to get receipt %s: %w", id, err)
	}
	return p, nil
}

// GetWithEmployee implements payroll.ReceiptRepository.
func (r *payrollRepositoryImpl) GetWithEmployee(ctx context.Context, id string) (payroll.ReceiptWithEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + receiptColumns + `, e.id, e.nombre, e.apellido, e.legajo
		FROM payroll_receipts p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1`

	p, err := scanReceiptWithEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ReceiptWithEmployee{}, payroll.ErrReceiptNotFound
		}
		return payroll.ReceiptWithEmployee{}, fmt.Errorf("failed to get receipt %s: %w", id, err)
	}
	return p, nil
}

// Update implements payroll.ReceiptRepository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, p payroll.Receipt) (payroll.Receipt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_receipts AS p SET
			period = $2, payment_date = $3, signed = $4, signed_date = $5, has_presentismo = $6,
			extra_hours = $7, other_additions = $8, discounts = $9, advance_requested = $10,
			advance_date = $11, advance_amount = $12, net_amount = $13, notes = $14, updated_at = NOW()
		WHERE p.id = $1
		RETURNING ` + receiptColumns

	updated, err := scanReceipt(q.QueryRow(ctx, query,
		p.ID, p.Period, p.PaymentDate, p.Signed, p.SignedDate, p.HasPresentismo,
		p.ExtraHours, p.OtherAdditions, p.Discounts, p.AdvanceRequested,
		p.AdvanceDate, p.AdvanceAmount, p.NetAmount, p.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Receipt{}, payroll.ErrReceiptNotFound
		}
		return payroll.Receipt{}, mapReceiptWriteError(err)
	}
	return updated, nil
}

// Delete implements payroll.ReceiptRepository.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete receipt %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrReceiptNotFound
	}
	return nil
}

// List implements payroll.ReceiptRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.ReceiptFilter, params pagination.Params) ([]payroll.ReceiptWithEmployee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("p.period = $%d", argIdx))
		args = append(args, filter.Period)
		argIdx++
	}
	if filter.Signed != nil {
		conditions = append(conditions, fmt.Sprintf("p.signed = $%d", argIdx))
		args = append(args, *filter.Signed)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM payroll_receipts p WHERE %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count receipts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, e.id, e.nombre, e.apellido, e.legajo
		FROM payroll_receipts p
		JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY p.period DESC, e.apellido ASC, e.nombre ASC, p.id ASC
		LIMIT $%d OFFSET $%d
	`, receiptColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []payroll.ReceiptWithEmployee
	for rows.Next() {
		p, err := scanReceiptWithEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}
