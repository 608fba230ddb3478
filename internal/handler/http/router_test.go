package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/auth"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/user"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/jwt"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReminderService struct {
	mock.Mock
}

func (m *mockReminderService) RunDaily(ctx context.Context) (reminder.RunResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(reminder.RunResult), args.Error(1)
}

func (m *mockReminderService) ListDispatches(ctx context.Context, params pagination.Params) (pagination.Page[reminder.DispatchResponse], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(pagination.Page[reminder.DispatchResponse]), args.Error(1)
}

type routerFixture struct {
	router    http.Handler
	jwt       jwt.Service
	auth      *mockAuthService
	reminders *mockReminderService
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	f := routerFixture{
		jwt:       jwt.NewJWTService("router-secret", "1h"),
		auth:      new(mockAuthService),
		reminders: new(mockReminderService),
	}
	cfg := &config.Config{
		App:  config.AppConfig{Env: "test", LogLevel: "error"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	f.router = NewRouter(cfg, f.jwt, Handlers{
		Auth:         NewAuthHandler(f.auth),
		Employee:     NewEmployeeHandler(nil),
		Attendance:   NewAttendanceHandler(nil),
		Disciplinary: NewDisciplinaryHandler(nil),
		Payroll:      NewPayrollHandler(nil),
		Account:      NewAccountHandler(nil),
		Event:        NewEventHandler(nil, f.jwt),
		Dashboard:    NewDashboardHandler(nil),
		Presentismo:  NewPresentismoHandler(nil),
		Admin:        NewAdminHandler(nil, f.reminders, nil, nil),
	}, "")
	return f
}

func (f routerFixture) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken("u1", "u1@example.com", role)
	require.NoError(t, err)
	return token
}

func TestRouter_AuthAndRoleGates(t *testing.T) {
	f := newRouterFixture(t)
	params := pagination.Params{Page: 1, Limit: defaultPageLimit}
	f.reminders.On("ListDispatches", mock.Anything, params).
		Return(pagination.NewPage[reminder.DispatchResponse](nil, 0, params), nil)

	cases := []struct {
		name   string
		path   string
		role   user.Role
		status int
	}{
		{"no token", "/api/employees", "", http.StatusUnauthorized},
		{"user on admin route", "/api/admin/reminders/dispatches", user.RoleUser, http.StatusForbidden},
		{"admin on admin route", "/api/admin/reminders/dispatches", user.RoleAdmin, http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, c.path, nil)
			if c.role != "" {
				r.Header.Set(jwt.AuthTokenHeader, f.token(t, c.role))
			}
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, r)
			assert.Equal(t, c.status, w.Code)
		})
	}
}

func TestRouter_PromoteAdminDevSkipsJWT(t *testing.T) {
	f := newRouterFixture(t)
	f.auth.On("PromoteAdminDev", mock.Anything, "s3cret", auth.PromoteAdminRequest{Email: "boss@example.com"}).
		Return(auth.PromoteAdminResponse{Email: "boss@example.com"}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/admin/promote-admin-dev", bytes.NewReader([]byte(`{"email":"boss@example.com"}`)))
	r.Header.Set(PromoteTokenHeader, "s3cret")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	f.auth.AssertExpectations(t)
}

func TestRouter_EventStreamRequiresStreamToken(t *testing.T) {
	f := newRouterFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/stream", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// An access token is not a stream token.
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/stream?token="+f.token(t, user.RoleAdmin), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Heartbeat(t *testing.T) {
	f := newRouterFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel(" Warning ").String())
	assert.Equal(t, "INFO", ParseLevel("nonsense").String())
}
