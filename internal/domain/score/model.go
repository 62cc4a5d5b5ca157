package score

import "time"

// Score is the derived per-user, per-week total. TotalScore is repeated on
// every row of a user and always equals the sum of that user's WeeklyScore.
type Score struct {
	ID          string
	UserID      string
	WeekID      string
	WeeklyScore float64
	TotalScore  float64
	UpdatedAt   time.Time
}
