package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

// EmployeeRepo is an in-memory employee.EmployeeRepository.
type EmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

func NewEmployeeRepo(employees ...employee.Employee) *EmployeeRepo {
	r := &EmployeeRepo{employees: map[string]employee.Employee{}}
	for _, e := range employees {
		r.employees[e.ID] = e
	}
	return r
}

func (r *EmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if e.DNI != nil && existing.DNI != nil && *e.DNI == *existing.DNI {
			return employee.Employee{}, employee.ErrDNIExists
		}
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.UpdatedAt = time.Now()
	r.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r *EmployeeRepo) sorted() []employee.Employee {
	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Apellido != out[j].Apellido {
			return out[i].Apellido < out[j].Apellido
		}
		return out[i].Nombre < out[j].Nombre
	})
	return out
}

func (r *EmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter, params pagination.Params) ([]employee.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []employee.Employee
	for _, e := range r.sorted() {
		if filter.Activo != nil && e.Activo != *filter.Activo {
			continue
		}
		if filter.Departamento != "" && e.Departamento != filter.Departamento {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *EmployeeRepo) ListWithPhone(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.sorted() {
		if e.HasPhone() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EmployeeRepo) GetByIDs(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]employee.Employee{}
	for _, id := range ids {
		if e, ok := r.employees[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}
