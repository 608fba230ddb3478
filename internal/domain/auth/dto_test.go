package auth

import (
	"testing"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	req := RegisterRequest{Nombre: " Ana ", Email: " Ana@Example.com ", Password: "secret1"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "ana@example.com", req.Email)
	assert.Equal(t, "Ana", req.Nombre)

	req = RegisterRequest{Email: "not-an-email", Password: "123"}
	err := req.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "nombre")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestPromoteAdminRequest_Validate(t *testing.T) {
	req := PromoteAdminRequest{Email: "boss@example.com"}
	assert.NoError(t, req.Validate())

	req = PromoteAdminRequest{Email: "boss@example.com", Password: "123"}
	assert.Error(t, req.Validate())

	req = PromoteAdminRequest{}
	assert.Error(t, req.Validate())
}
