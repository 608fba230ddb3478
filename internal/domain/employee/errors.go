package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDNIExists        = errors.New("dni already registered")
	ErrLegajoExists     = errors.New("legajo already registered")
	ErrNoPhone          = errors.New("employee has no phone number")
)
