package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WHATSAPP_PROVIDER", "mock")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0 8 * * *", cfg.Reminders.Cron)
	assert.Equal(t, "0 9 20 * *", cfg.Presentismo.ReportCron)
	assert.True(t, cfg.Reminders.Enabled)
	assert.True(t, cfg.Reminders.OnlyActive)
	assert.True(t, cfg.Seed.DefaultUser)
	assert.Equal(t, "admin@test.com", cfg.Seed.AdminEmail)
	assert.Equal(t, 5, cfg.Outbox.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", cfg.DatabaseURL())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WHATSAPP_PROVIDER", "META")
	t.Setenv("REMINDERS_DEPARTAMENTO", " Ventas , Logística ,")
	t.Setenv("PRESENTISMO_WHATSAPP_TO", "+5491111111111,+5492222222222")
	t.Setenv("REMINDERS_ONLY_ACTIVE", "false")
	t.Setenv("OUTBOX_POLL_INTERVAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "meta", cfg.WhatsApp.Provider)
	assert.Equal(t, []string{"Ventas", "Logística"}, cfg.Reminders.Departamentos)
	assert.Len(t, cfg.Presentismo.Recipients, 2)
	assert.False(t, cfg.Reminders.OnlyActive)
	assert.Equal(t, 2*time.Second, cfg.Outbox.PollInterval)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OUTBOX_WORKERS", "many")
	_, err = Load()
	assert.Error(t, err)
}
