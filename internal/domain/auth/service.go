package auth

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, userID string) (user.UserResponse, error)

	// SeedDefaultAdmin creates the configured admin when its email is not registered yet.
	SeedDefaultAdmin(ctx context.Context) error

	// PromoteAdminDev creates or promotes an admin outside production when token matches.
	PromoteAdminDev(ctx context.Context, token string, req PromoteAdminRequest) (PromoteAdminResponse, error)

	// IssueStreamToken returns a short-lived token for the event stream.
	IssueStreamToken(ctx context.Context, userID string) (StreamTokenResponse, error)
}
