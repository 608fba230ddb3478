package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/auth"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/user"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	seed         config.SeedConfig
	promoteToken string
	production   bool
	now          func() time.Time
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, cfg *config.Config) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		seed:           cfg.Seed,
		promoteToken:   cfg.App.AdminPromoteToken,
		production:     cfg.IsProduction(),
		now:            time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	exists, err := a.UserRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrEmailExists
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         user.RoleUser,
	})
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(created), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		Token:     token,
		ExpiresIn: expiresAt - a.now().Unix(),
		User:      user.ToResponse(userData),
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// SeedDefaultAdmin implements auth.AuthService.
func (a *AuthServiceImpl) SeedDefaultAdmin(ctx context.Context) error {
	if !a.seed.DefaultUser {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(a.seed.AdminEmail))
	if email == "" {
		return nil
	}

	exists, err := a.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check seed user: %w", err)
	}
	if exists {
		return nil
	}

	hashed, err := a.hashPassword(a.seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	if _, err := a.UserRepository.Create(ctx, user.User{
		Nombre:       a.seed.AdminName,
		Email:        email,
		PasswordHash: hashed,
		Role:         user.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("failed to create seed user: %w", err)
	}

	slog.Info("Default admin user created", "email", email)
	return nil
}

// PromoteAdminDev implements auth.AuthService.
func (a *AuthServiceImpl) PromoteAdminDev(ctx context.Context, token string, req auth.PromoteAdminRequest) (auth.PromoteAdminResponse, error) {
	if a.production || a.promoteToken == "" {
		return auth.PromoteAdminResponse{}, auth.ErrPromotionDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.promoteToken)) != 1 {
		return auth.PromoteAdminResponse{}, auth.ErrInvalidPromoteToken
	}
	if err := req.Validate(); err != nil {
		return auth.PromoteAdminResponse{}, err
	}

	existing, err := a.UserRepository.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		existing.Role = user.RoleAdmin
		if req.Name != "" {
			existing.Nombre = req.Name
		}
		if req.Password != "" {
			if existing.PasswordHash, err = a.hashPassword(req.Password); err != nil {
				return auth.PromoteAdminResponse{}, fmt.Errorf("failed to hash password: %w", err)
			}
		}
		if _, err := a.UserRepository.Update(ctx, existing); err != nil {
			return auth.PromoteAdminResponse{}, err
		}
		slog.Warn("User promoted to admin", "email", req.Email)
		return auth.PromoteAdminResponse{Email: req.Email}, nil
	case !errors.Is(err, user.ErrUserNotFound):
		return auth.PromoteAdminResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	password := req.Password
	var generated *string
	if password == "" {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		generated = &password
	}
	name := req.Name
	if name == "" {
		name = "Administrador"
	}

	hashed, err := a.hashPassword(password)
	if err != nil {
		return auth.PromoteAdminResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := a.UserRepository.Create(ctx, user.User{
		Nombre:       name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         user.RoleAdmin,
	}); err != nil {
		return auth.PromoteAdminResponse{}, err
	}

	slog.Warn("Admin user created through promote endpoint", "email", req.Email)
	return auth.PromoteAdminResponse{Email: req.Email, Created: true, Password: generated}, nil
}

// IssueStreamToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueStreamToken(ctx context.Context, userID string) (auth.StreamTokenResponse, error) {
	token, expiresIn, err := a.Service.GenerateSSEToken(userID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: int64(expiresIn)}, nil
}
