package presentismo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	dni := "30111222"
	msg := BuildMessage(month, []LostEmployee{
		{Nombre: "Ana", Apellido: "García", DNI: &dni, Telefono: "1155550000"},
		{Nombre: "Luis", Apellido: "Pérez"},
	})
	assert.Equal(t, "Informe de Presentismo – marzo de 2024\n"+
		"Empleados que perdieron el presentismo por inasistencias:\n\n"+
		"1. García Ana – DNI 30111222 – Tel 1155550000\n"+
		"2. Pérez Luis – DNI - – Tel -", msg)

	empty := BuildMessage(month, nil)
	assert.Equal(t, "Informe de Presentismo – marzo de 2024\n"+
		"Empleados que perdieron el presentismo por inasistencias:\n\n"+
		"No se registran pérdidas de presentismo por inasistencia en el período.", empty)
}

func TestResolveDestinations(t *testing.T) {
	fallback := []string{"+5491111111111", " +5492222222222 ", ""}

	dests, source := ResolveDestinations(nil, fallback)
	assert.Equal(t, SourceEnv, source)
	assert.Len(t, dests, 2)
	assert.Equal(t, "+5492222222222", dests[1].Phone)

	active := []Recipient{{Phone: " +5493333333333 ", Name: "RRHH"}}
	dests, source = ResolveDestinations(active, fallback)
	assert.Equal(t, SourceDB, source)
	assert.Len(t, dests, 1)
	assert.Equal(t, "+5493333333333", dests[0].Phone)
	assert.Equal(t, "RRHH", dests[0].Name)
}
