package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

const employeeColumns = `id, nombre, apellido, dni, legajo, email, telefono, domicilio, puesto,
	departamento, sucursal, salario, activo, fecha_ingreso, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Nombre, &emp.Apellido, &emp.DNI, &emp.Legajo, &emp.Email,
		&emp.Telefono, &emp.Domicilio, &emp.Puesto, &emp.Departamento, &emp.Sucursal,
		&emp.Salario, &emp.Activo, &emp.FechaIngreso, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// mapEmployeeWriteError translates unique-index violations on dni and legajo.
func mapEmployeeWriteError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case "employees_dni_key":
			return employee.ErrDNIExists
		case "employees_legajo_key":
			return employee.ErrLegajoExists
		}
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			nombre, apellido, dni, legajo, email, telefono, domicilio, puesto,
			departamento, sucursal, salario, activo, fecha_ingreso
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.Nombre, newEmployee.Apellido, newEmployee.DNI, newEmployee.Legajo,
		newEmployee.Email, newEmployee.Telefono, newEmployee.Domicilio, newEmployee.Puesto,
		newEmployee.Departamento, newEmployee.Sucursal, newEmployee.Salario, newEmployee.Activo,
		newEmployee.FechaIngreso,
	))
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees SET
			nombre = $2, apellido = $3, dni = $4, legajo = $5, email = $6, telefono = $7,
			domicilio = $8, puesto = $9, departamento = $10, sucursal = $11, salario = $12,
			activo = $13, fecha_ingreso = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.Nombre, emp.Apellido, emp.DNI, emp.Legajo, emp.Email, emp.Telefono,
		emp.Domicilio, emp.Puesto, emp.Departamento, emp.Sucursal, emp.Salario,
		emp.Activo, emp.FechaIngreso,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository. Dependent records cascade.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter, params pagination.Params) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(nombre ILIKE $%d OR apellido ILIKE $%d OR dni ILIKE $%d OR legajo ILIKE $%d OR (nombre || ' ' || apellido) ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Query+"%")
		argIdx++
	}
	if filter.Activo != nil {
		conditions = append(conditions, fmt.Sprintf("activo = $%d", argIdx))
		args = append(args, *filter.Activo)
		argIdx++
	}
	if filter.Departamento != "" {
		conditions = append(conditions, fmt.Sprintf("departamento = $%d", argIdx))
		args = append(args, filter.Departamento)
		argIdx++
	}
	if filter.Sucursal != "" {
		conditions = append(conditions, fmt.Sprintf("sucursal = $%d", argIdx))
		args = append(args, filter.Sucursal)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE %s
		ORDER BY apellido ASC, nombre ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListWithPhone implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListWithPhone(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE BTRIM(telefono) <> ''
		ORDER BY apellido ASC, nombre ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with phone: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetByIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	result := make(map[string]employee.Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1::uuid[])`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result[emp.ID] = emp
	}
	return result, rows.Err()
}
