package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/user"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (http.Handler, jwt.Service) {
	t.Helper()
	svc := jwt.NewJWTService("middleware-secret", "1h")

	r := chi.NewRouter()
	r.Use(Verifier(svc.JWTAuth()))
	r.Group(func(r chi.Router) {
		r.Use(AuthRequired(svc.JWTAuth()))
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(UserID(r.Context())))
		})
		r.With(AdminOnly).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r, svc
}

func TestAuthRequired(t *testing.T) {
	router, svc := newRouter(t)
	token, _, err := svc.GenerateAccessToken("u1", "u1@example.com", user.RoleUser)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"x-auth-token header", jwt.AuthTokenHeader, token, http.StatusOK},
		{"bearer header", "Authorization", "Bearer " + token, http.StatusOK},
		{"garbage token", jwt.AuthTokenHeader, "not-a-jwt", http.StatusUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if c.header != "" {
				req.Header.Set(c.header, c.value)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, c.status, rec.Code)
			if c.status == http.StatusOK {
				assert.Equal(t, "u1", rec.Body.String())
			}
		})
	}
}

func TestAuthRequired_RejectsStreamToken(t *testing.T) {
	router, svc := newRouter(t)
	token, _, err := svc.GenerateSSEToken("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(jwt.AuthTokenHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	router, svc := newRouter(t)

	userToken, _, err := svc.GenerateAccessToken("u1", "u1@example.com", user.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := svc.GenerateAccessToken("a1", "a1@example.com", user.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(jwt.AuthTokenHeader, userToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(jwt.AuthTokenHeader, adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
