package admin

import "errors"

var (
	ErrMigrationInProgress = errors.New("migration already in progress")
	ErrLegacyNotConfigured = errors.New("legacy database is not configured")
	ErrProviderFailed      = errors.New("whatsapp provider error")
)
