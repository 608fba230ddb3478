package presentismo

import "errors"

var (
	ErrRecipientNotFound = errors.New("presentismo recipient not found")
	ErrNoRecipients      = errors.New("no report recipients configured")
)
