package employee

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
	"github.com/sj-empleados/empleados-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestService(emps ...employee.Employee) (employee.EmployeeService, *servicetest.EmployeeRepo, *servicetest.EventService) {
	repo := servicetest.NewEmployeeRepo(emps...)
	events := &servicetest.EventService{}
	return NewEmployeeService(repo, &servicetest.TxManager{}, events, "54"), repo, events
}

func TestCreateEmployee_SanitizesDNI(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		Nombre:   "Ana",
		Apellido: "García",
		DNI:      ptr("30.123.456"),
		Telefono: "11 5555-0000",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.DNI)
	assert.Equal(t, "30123456", *resp.DNI)
	assert.True(t, resp.Activo)
}

func TestCreateEmployee_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{Nombre: "Ana"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "apellido")
}

func TestUpdateEmployee_RecordsWatchedChanges(t *testing.T) {
	salario := decimal.NewFromInt(1000)
	svc, _, events := newTestService(employee.Employee{
		ID: "e1", Nombre: "Ana", Apellido: "García", Puesto: "Cajera", Salario: &salario, Activo: true,
	})

	newSalario := decimal.NewFromInt(1500)
	resp, err := svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{
		ID:      "e1",
		Puesto:  ptr("Supervisora"),
		Salario: &newSalario,
		Activo:  ptr(true),
		Nombre:  ptr("Ana María"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Supervisora", resp.Puesto)

	require.Len(t, events.Recorded, 1)
	ev := events.Recorded[0]
	assert.Equal(t, event.TypeEmployeeUpdate, ev.Type)
	assert.Equal(t, "Modificaciones importantes en legajo de Ana María García: puesto: 'Cajera' → 'Supervisora', salario: '1000' → '1500'", ev.Message)
	require.Len(t, ev.Changes, 2)
	assert.Equal(t, "puesto", ev.Changes[0].Field)
	assert.Equal(t, "salario", ev.Changes[1].Field)
	assert.Len(t, events.Published, 1)
}

func TestUpdateEmployee_NoWatchedChangeNoEvent(t *testing.T) {
	svc, _, events := newTestService(employee.Employee{ID: "e1", Nombre: "Ana", Apellido: "García", Puesto: "Cajera"})

	_, err := svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{ID: "e1", Puesto: ptr("Cajera"), Nombre: ptr("Anita")})
	require.NoError(t, err)
	assert.Empty(t, events.Recorded)
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{ID: "missing", Puesto: ptr("x")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListEmployees_Paginates(t *testing.T) {
	svc, _, _ := newTestService(
		employee.Employee{ID: "1", Nombre: "A", Apellido: "Zeta", Activo: true},
		employee.Employee{ID: "2", Nombre: "B", Apellido: "Alfa", Activo: true},
		employee.Employee{ID: "3", Nombre: "C", Apellido: "Beta", Activo: true},
	)

	page, err := svc.ListEmployees(context.Background(), employee.EmployeeFilter{}, pagination.New(1, 2, 25, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Alfa", page.Items[0].Apellido)
	assert.Equal(t, "Beta", page.Items[1].Apellido)
}

func TestWhatsAppQR(t *testing.T) {
	svc, _, _ := newTestService(
		employee.Employee{ID: "e1", Nombre: "Ana", Apellido: "García", Telefono: "11 5555-0000"},
		employee.Employee{ID: "e2", Nombre: "Luis", Apellido: "Pérez"},
	)

	data, err := svc.WhatsAppQR(context.Background(), "e1")
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = svc.WhatsAppQR(context.Background(), "e2")
	assert.ErrorIs(t, err, employee.ErrNoPhone)
}
