package account

import "errors"

var (
	ErrAccountNotFound = errors.New("employee account not found")
	ErrNothingToDeduct = errors.New("nothing to deduct: no debt or no weekly deduction configured")
)
