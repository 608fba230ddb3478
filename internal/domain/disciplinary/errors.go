package disciplinary

import "errors"

var (
	ErrDisciplinaryNotFound = errors.New("disciplinary measure not found")
	ErrInvalidType          = errors.New("invalid disciplinary type")
)
