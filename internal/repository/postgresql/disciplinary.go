package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

const disciplinaryColumns = `d.id, d.employee_id, d.date, d.time, d.type, d.description, d.document, d.signed,
	d.signed_date, d.duration_days, d.return_to_work_date, d.created_at, d.updated_at`

type disciplinaryRepositoryImpl struct {
	db *database.DB
}

func NewDisciplinaryRepository(db *database.DB) disciplinary.DisciplinaryRepository {
	return &disciplinaryRepositoryImpl{db: db}
}

func disciplinaryScanTargets(d *disciplinary.Disciplinary) []interface{} {
	return []interface{}{
		&d.ID, &d.EmployeeID, &d.Date, &d.Time, &d.Type, &d.Description, &d.Document, &d.Signed,
		&d.SignedDate, &d.DurationDays, &d.ReturnToWorkDate, &d.CreatedAt, &d.UpdatedAt,
	}
}

func scanDisciplinary(row pgx.Row) (disciplinary.Disciplinary, error) {
	var d disciplinary.Disciplinary
	err := row.Scan(disciplinaryScanTargets(&d)...)
	return d, err
}

func scanDisciplinaryWithEmployee(row pgx.Row) (disciplinary.DisciplinaryWithEmployee, error) {
	var d disciplinary.DisciplinaryWithEmployee
	targets := append(disciplinaryScanTargets(&d.Disciplinary),
		&d.Employee.ID, &d.Employee.Nombre, &d.Employee.Apellido, &d.Employee.Legajo)
	err := row.Scan(targets...)
	return d, err
}

// Create implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) Create(ctx context.Context, d disciplinary.Disciplinary) (disciplinary.Disciplinary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO disciplinaries AS d (
			employee_id, date, time, type, description, document, signed, signed_date,
			duration_days, return_to_work_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + disciplinaryColumns

	created, err := scanDisciplinary(q.QueryRow(ctx, query,
		d.EmployeeID, d.Date, d.Time, d.Type, d.Description, d.Document, d.Signed, d.SignedDate,
		d.DurationDays, d.ReturnToWorkDate,
	))
	if err != nil {
		return disciplinary.Disciplinary{}, fmt.Errorf("failed to create disciplinary: %w", err)
	}
	return created, nil
}

// GetByID implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) GetByID(ctx context.Context, id string) (disciplinary.Disciplinary, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDisciplinary(q.QueryRow(ctx, `SELECT `+disciplinaryColumns+` FROM disciplinaries d WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return disciplinary.Disciplinary{}, disciplinary.ErrDisciplinaryNotFound
		}
		return disciplinary.Disciplinary{}, fmt.Errorf("failed to get disciplinary %s: %w", id, err)
	}
	return d, nil
}

// GetWithEmployee implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) GetWithEmployee(ctx context.Context, id string) (disciplinary.DisciplinaryWithEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + disciplinaryColumns + `, e.id, e.nombre, e.apellido, e.legajo
		FROM disciplinaries d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.id = $1`

	d, err := scanDisciplinaryWithEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return disciplinary.DisciplinaryWithEmployee{}, disciplinary.ErrDisciplinaryNotFound
		}
		return disciplinary.DisciplinaryWithEmployee{}, fmt.Errorf("failed to get disciplinary %s: %w", id, err)
	}
	return d, nil
}

// Update implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) Update(ctx context.Context, d disciplinary.Disciplinary) (disciplinary.Disciplinary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE disciplinaries AS d SET
			date = $2, time = $3, type = $4, description = $5, document = $6, signed = $7,
			signed_date = $8, duration_days = $9, return_to_work_date = $10, updated_at = NOW()
		WHERE d.id = $1
		RETURNING ` + disciplinaryColumns

	updated, err := scanDisciplinary(q.QueryRow(ctx, query,
		d.ID, d.Date, d.Time, d.Type, d.Description, d.Document, d.Signed,
		d.SignedDate, d.DurationDays, d.ReturnToWorkDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return disciplinary.Disciplinary{}, disciplinary.ErrDisciplinaryNotFound
		}
		return disciplinary.Disciplinary{}, fmt.Errorf("failed to update disciplinary %s: %w", d.ID, err)
	}
	return updated, nil
}

// Delete implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM disciplinaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete disciplinary %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return disciplinary.ErrDisciplinaryNotFound
	}
	return nil
}

// List implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) List(ctx context.Context, filter disciplinary.DisciplinaryFilter, params pagination.Params) ([]disciplinary.DisciplinaryWithEmployee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("d.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("d.type = $%d", argIdx))
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.Signed != nil {
		conditions = append(conditions, fmt.Sprintf("d.signed = $%d", argIdx))
		args = append(args, *filter.Signed)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM disciplinaries d WHERE %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count disciplinaries: %w", err)
	}

	sortOrder := "DESC"
	if filter.SortDir == "asc" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, e.id, e.nombre, e.apellido, e.legajo
		FROM disciplinaries d
		JOIN employees e ON e.id = d.employee_id
		WHERE %s
		ORDER BY d.date %s, d.created_at %s, d.id %s
		LIMIT $%d OFFSET $%d
	`, disciplinaryColumns, whereClause, sortOrder, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list disciplinaries: %w", err)
	}
	defer rows.Close()

	var records []disciplinary.DisciplinaryWithEmployee
	for rows.Next() {
		d, err := scanDisciplinaryWithEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan disciplinary: %w", err)
		}
		records = append(records, d)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListWithDocument implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) ListWithDocument(ctx context.Context) ([]disciplinary.Disciplinary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+disciplinaryColumns+`
		FROM disciplinaries d
		WHERE d.document IS NOT NULL AND d.document <> ''
		ORDER BY d.created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplinary documents: %w", err)
	}
	defer rows.Close()

	var records []disciplinary.Disciplinary
	for rows.Next() {
		d, err := scanDisciplinary(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, d)
	}
	return records, rows.Err()
}

// UpdateDocument implements disciplinary.DisciplinaryRepository.
func (r *disciplinaryRepositoryImpl) UpdateDocument(ctx context.Context, id string, document string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE disciplinaries SET document = $2, updated_at = NOW() WHERE id = $1`, id, document)
	if err != nil {
		return fmt.Errorf("failed to update disciplinary document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return disciplinary.ErrDisciplinaryNotFound
	}
	return nil
}
