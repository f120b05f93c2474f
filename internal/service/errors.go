package service

import (
	"errors"
	"time"

	"github.com/shinyyama/student-realestate/internal/model"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = model.ErrInvalidID
	ErrDuplicateInquiry = errors.New("duplicate inquiry")
	ErrValidation       = errors.New("validation failed")
)

// ValidationError carries a message that is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const MsgStatusNotBool = "Status must be a boolean value (true or false)"

// stamp returns the current time at the precision BSON dates store, so values
// returned from a write match what a later read yields.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
