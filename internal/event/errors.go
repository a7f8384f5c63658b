package event

import "errors"

var (
	ErrNotFound          = errors.New("event not found")
	ErrEndNotAfterStart  = errors.New("event must end after it starts")
	ErrVenueMismatch     = errors.New("venue belongs to a different band")
	ErrInvalidTransition = errors.New("invalid status transition")
)
