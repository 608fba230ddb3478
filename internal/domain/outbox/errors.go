package outbox

import "errors"

var (
	ErrMessageNotFound = errors.New("outbox message not found")
	ErrAlreadySent     = errors.New("outbox message already sent")
)
