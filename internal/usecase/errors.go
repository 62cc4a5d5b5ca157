package usecase

import (
	"errors"

	"github.com/riskibarqy/score-predictor/internal/domain/week"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrBettingClosed         = errors.New("betting closed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// LockRejectedError is returned when the betting window refuses a write.
// It matches ErrBettingClosed under errors.Is.
type LockRejectedError struct {
	WeekID string
	Reason week.LockReason
}

func (e *LockRejectedError) Error() string {
	return "betting closed for week " + e.WeekID + ": " + string(e.Reason)
}

func (e *LockRejectedError) Is(target error) bool {
	return target == ErrBettingClosed
}

// LockReasonOf extracts the rejection reason from err, if any.
func LockReasonOf(err error) (week.LockReason, bool) {
	var rejected *LockRejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason, true
	}
	return week.ReasonNone, false
}
