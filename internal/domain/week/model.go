package week

import (
	"fmt"
	"strings"
	"time"
)

// Week groups matches under one betting deadline.
type Week struct {
	ID     string
	Name   string
	Month  int
	Season string
	Active bool
	Locked bool
	// LockTime is the instant after which betting closes, even while Locked
	// is still false.
	LockTime       *time.Time
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (w Week) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("week name is required")
	}
	if w.Month < 1 || w.Month > 12 {
		return fmt.Errorf("week month must be between 1 and 12")
	}
	if strings.TrimSpace(w.Season) == "" {
		return fmt.Errorf("week season is required")
	}
	return nil
}

// IsEffectivelyLocked combines both lock signals.
func (w Week) IsEffectivelyLocked(now time.Time) bool {
	return w.Locked || w.lockTimePassed(now)
}

func (w Week) lockTimePassed(now time.Time) bool {
	return w.LockTime != nil && !now.Before(*w.LockTime)
}
