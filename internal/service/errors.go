package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrState      = errors.New("invalid state")
	ErrValidation = errors.New("validation failed")
)

// Redirect hints attached to state errors.
const (
	RedirectResults = "results"
	RedirectFinish  = "finish"
)

// BlockedError is returned when the access gate denies a blocked user.
type BlockedError struct {
	Until time.Time
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("user is blocked until %s", e.Until.Format(time.RFC3339))
}

func (e *BlockedError) Unwrap() error { return ErrForbidden }

// StateError reports an operation on an attempt in the wrong state.
// Redirect names the view the caller should go to instead.
type StateError struct {
	AttemptID uint
	Reason    string
	Redirect  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("attempt %d: %s", e.AttemptID, e.Reason)
}

func (e *StateError) Unwrap() error { return ErrState }

func attemptCompleted(id uint) error {
	return &StateError{AttemptID: id, Reason: "attempt is already completed", Redirect: RedirectResults}
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFound maps gorm's missing-row error onto ErrNotFound and passes anything else through.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	return err
}

// isDomainError reports whether err belongs to the taxonomy above rather than the infrastructure.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrState) || errors.Is(err, ErrValidation)
}
