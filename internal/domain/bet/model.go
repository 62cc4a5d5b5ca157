package bet

import (
	"fmt"
	"time"
)

const (
	MinGoals = 0
	MaxGoals = 20
)

// Prediction is a predicted final score.
type Prediction struct {
	Team1Goals int
	Team2Goals int
}

func (p Prediction) Validate() error {
	if p.Team1Goals < MinGoals || p.Team1Goals > MaxGoals {
		return fmt.Errorf("team1 goals must be between %d and %d", MinGoals, MaxGoals)
	}
	if p.Team2Goals < MinGoals || p.Team2Goals > MaxGoals {
		return fmt.Errorf("team2 goals must be between %d and %d", MinGoals, MaxGoals)
	}
	return nil
}

// Bet is one user's prediction for one match. (UserID, MatchID) is unique.
type Bet struct {
	ID         string
	UserID     string
	MatchID    string
	WeekID     string
	Prediction Prediction
	Points     float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
