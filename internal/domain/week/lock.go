package week

import "time"

// LockReason tags why betting on a week is not allowed.
type LockReason string

const (
	ReasonNone     LockReason = ""
	ReasonLocked   LockReason = "locked"
	ReasonExpired  LockReason = "expired"
	ReasonInactive LockReason = "inactive"
	ReasonNotFound LockReason = "not_found"
)

// Decision is the outcome of EvaluateBetting.
type Decision struct {
	Allowed bool
	Reason  LockReason
	// PersistLock is set when the lock time has passed but the week is not
	// yet stored as locked.
	PersistLock bool
}

// EvaluateBetting is the single betting-window policy used for every bet
// create, modify and delete. Precedence: locked, expired, inactive.
// allowOverride skips all three rules but still reports PersistLock.
func EvaluateBetting(w Week, now time.Time, allowOverride bool) Decision {
	d := Decision{PersistLock: !w.Locked && w.lockTimePassed(now)}
	if allowOverride {
		d.Allowed = true
		return d
	}

	switch {
	case w.Locked:
		d.Reason = ReasonLocked
	case w.lockTimePassed(now):
		d.Reason = ReasonExpired
	case !w.Active:
		d.Reason = ReasonInactive
	default:
		d.Allowed = true
	}
	return d
}
