package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
)

const recipientColumns = `id, name, role_label, phone, active, created_by, created_at, updated_at`

type recipientRepositoryImpl struct {
	db *database.DB
}

func NewRecipientRepository(db *database.DB) presentismo.RecipientRepository {
	return &recipientRepositoryImpl{db: db}
}

func scanRecipient(row pgx.Row) (presentismo.Recipient, error) {
	var r presentismo.Recipient
	err := row.Scan(&r.ID, &r.Name, &r.RoleLabel, &r.Phone, &r.Active, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *recipientRepositoryImpl) list(ctx context.Context, query string) ([]presentismo.Recipient, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []presentismo.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

// List implements presentismo.RecipientRepository.
func (r *recipientRepositoryImpl) List(ctx context.Context) ([]presentismo.Recipient, error) {
	return r.list(ctx, `SELECT `+recipientColumns+` FROM presentismo_recipients ORDER BY created_at DESC`)
}

// ListActive implements presentismo.RecipientRepository.
func (r *recipientRepositoryImpl) ListActive(ctx context.Context) ([]presentismo.Recipient, error) {
	return r.list(ctx, `SELECT `+recipientColumns+` FROM presentismo_recipients WHERE active ORDER BY created_at ASC`)
}

// GetByID implements presentismo.RecipientRepository.
func (r *recipientRepositoryImpl) GetByID(ctx context.Context, id string) (presentismo.Recipient, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecipient(q.QueryRow(ctx, `SELECT `+recipientColumns+` FROM presentismo_recipients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return presentismo.Recipient{}, presentismo.ErrRecipientNotFound
		}
		return presentismo.Recipient{}, fmt.Errorf("failed to get recipient %s: %w", id, err)
	}
	return rec, nil
}

// Create implements presentismo.RecipientRepository.
func (r *recipientRepositoryImpl) Create(ctx context.Context, rec presentismo.Recipient) (presentismo.Recipient, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO presentismo_recipients (name, role_label, phone, active, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + recipientColumns

	created, err := scanRecipient(q.QueryRow(ctx, query, rec.Name, rec.RoleLabel, rec.Phone, rec.Active, rec.CreatedBy))
	if err != nil {
		return presentismo.Recipient{}, fmt.Errorf("failed to create recipient: %w", err)
	}
	return created, nil
}

// Update implements presentismo.RecipientRepository.
func (r *recipientRepositoryImpl) Update(ctx context.Context, rec presentismo.Recipient) (presentismo.Recipient, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE presentismo_recipients
		SET name = $2, role_label = $3, phone = $4, active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + recipientColumns

	updated, err := scanRecipient(q.QueryRow(ctx, query, rec.ID, rec.Name, rec.RoleLabel, rec.Phone, rec.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return presentismo.Recipient{}, presentismo.ErrRecipientNotFound
		}
		return presentismo.Recipient{}, fmt.Errorf("failed to update recipient %s: %w", rec.ID, err)
	}
	return updated, nil
}

// Delete implements presentismo.RecipientRepository.
func (r *recipientRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM presentismo_recipients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipient %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return presentismo.ErrRecipientNotFound
	}
	return nil
}

type presentismoReportRepositoryImpl struct {
	db *database.DB
}

func NewPresentismoReportRepository(db *database.DB) presentismo.ReportRepository {
	return &presentismoReportRepositoryImpl{db: db}
}

// ListLostPresentismo implements presentismo.ReportRepository.
func (r *presentismoReportRepositoryImpl) ListLostPresentismo(ctx context.Context, start, end time.Time) ([]presentismo.LostEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.nombre, e.apellido, e.dni, e.telefono
		FROM employees e
		WHERE EXISTS (
			SELECT 1 FROM attendances a
			WHERE a.employee_id = e.id
				AND a.type = $3
				AND a.lost_presentismo
				AND a.date >= $1 AND a.date < $2
		)
		ORDER BY e.apellido ASC, e.nombre ASC`

	rows, err := q.Query(ctx, query, start, end, attendance.TypeInasistencia)
	if err != nil {
		return nil, fmt.Errorf("failed to list lost presentismo: %w", err)
	}
	defer rows.Close()

	var employees []presentismo.LostEmployee
	for rows.Next() {
		var e presentismo.LostEmployee
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Apellido, &e.DNI, &e.Telefono); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
