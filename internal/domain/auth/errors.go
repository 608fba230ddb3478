package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrAdminRequired       = errors.New("admin privileges required")
	ErrPromotionDisabled   = errors.New("admin promotion is disabled in this environment")
	ErrInvalidPromoteToken = errors.New("invalid promote token")
)
