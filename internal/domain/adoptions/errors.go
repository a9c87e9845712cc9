package adoptions

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDuplicateRequest  = errors.New("active request already exists for this pet")
	ErrPetUnavailable    = errors.New("pet is not available for adoption")
	ErrTermNotAccepted   = errors.New("liability term not accepted")
	ErrAlreadyCompleted  = errors.New("adoption already completed")
)
