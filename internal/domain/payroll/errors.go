package payroll

import "errors"

var (
	ErrReceiptNotFound      = errors.New("payroll receipt not found")
	ErrReceiptAlreadyExists = errors.New("payroll receipt already exists for this period")
)
