package http

import (
	"log/slog"
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/auth"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/middleware"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

// PromoteTokenHeader carries the shared secret for the development promotion endpoint.
const PromoteTokenHeader = "x-admin-promote-token"

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	PromoteAdminDev(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered", "user_id", user.ID)
	response.Created(w, "User registered", user)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := a.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", token)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.authService.Me(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user)
}

// StreamToken implements AuthHandler.
func (a *AuthHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	token, err := a.authService.IssueStreamToken(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, token)
}

// PromoteAdminDev implements AuthHandler.
func (a *AuthHandlerImpl) PromoteAdminDev(w http.ResponseWriter, r *http.Request) {
	var req auth.PromoteAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := a.authService.PromoteAdminDev(r.Context(), r.Header.Get(PromoteTokenHeader), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Warn("Admin promoted through development endpoint", "email", result.Email)
	response.SuccessWithMessage(w, "Admin promoted", result)
}
