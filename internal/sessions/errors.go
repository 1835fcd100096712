package sessions

import "errors"

var (
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")
	ErrDuplicateLogin       = errors.New("account already has a live session")
	ErrNotAuthenticated     = errors.New("session is not authenticated")
)
