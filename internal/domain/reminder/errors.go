package reminder

import "errors"

var ErrRunInProgress = errors.New("reminder run already in progress")
