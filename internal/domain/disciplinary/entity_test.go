package disciplinary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveReturnToWork(t *testing.T) {
	days := 3
	d := Disciplinary{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DurationDays: &days}
	d.DeriveReturnToWork()
	require.NotNil(t, d.ReturnToWorkDate)
	assert.Equal(t, "2024-03-13", d.ReturnToWorkDate.Format("2006-01-02"))

	explicit := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	d = Disciplinary{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DurationDays: &days, ReturnToWorkDate: &explicit}
	d.DeriveReturnToWork()
	assert.Equal(t, explicit, *d.ReturnToWorkDate)

	zero := 0
	d = Disciplinary{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DurationDays: &zero}
	d.DeriveReturnToWork()
	assert.Nil(t, d.ReturnToWorkDate)
}

func TestReturnIsDerived(t *testing.T) {
	days := 3
	derived := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	d := Disciplinary{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DurationDays: &days, ReturnToWorkDate: &derived}
	assert.True(t, d.ReturnIsDerived())

	explicit := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	d.ReturnToWorkDate = &explicit
	assert.False(t, d.ReturnIsDerived())

	d.DurationDays = nil
	assert.False(t, d.ReturnIsDerived())
}

func TestCreateDisciplinaryRequest_Validate(t *testing.T) {
	req := CreateDisciplinaryRequest{EmployeeID: "3f6c2a9e-1b4d-4e7a-9c21-8d5e0f4b7a10", Date: "2024-03-10", Type: "grave"}
	assert.NoError(t, req.Validate())

	req.Type = "oral"
	assert.Error(t, req.Validate())

	neg := -1
	req = CreateDisciplinaryRequest{EmployeeID: "3f6c2a9e-1b4d-4e7a-9c21-8d5e0f4b7a10", Date: "10/03/2024", Type: "verbal", DurationDays: &neg}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "durationDays")
}
