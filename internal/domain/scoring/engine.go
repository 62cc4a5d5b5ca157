// Package scoring turns a prediction and a final result into points. Every
// read and write path that shows points goes through ScoreBet.
package scoring

import (
	"math"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
)

type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

const (
	ExactScorePoints = 3
	OutcomePoints    = 1
	defaultOdd       = 1.0
)

func OutcomeOf(team1Goals, team2Goals int) Outcome {
	switch {
	case team1Goals > team2Goals:
		return OutcomeHome
	case team1Goals < team2Goals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// HasOdds reports whether odds carry at least one usable number.
func HasOdds(odds *match.Odds) bool {
	if odds == nil {
		return false
	}
	for _, v := range []*float64{odds.HomeWin, odds.Draw, odds.AwayWin} {
		if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
			return true
		}
	}
	return false
}

// RoundOneDecimal rounds half up to one decimal place.
func RoundOneDecimal(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// ScoreBet awards classic 3/1/0 points, or odds-weighted points when odds
// are present: exact score pays twice the odd of the actual outcome, the
// right outcome pays the odd, anything else pays 0.
func ScoreBet(p bet.Prediction, r match.Result, odds *match.Odds) float64 {
	actual := OutcomeOf(r.Team1Goals, r.Team2Goals)
	exact := p.Team1Goals == r.Team1Goals && p.Team2Goals == r.Team2Goals
	sameOutcome := OutcomeOf(p.Team1Goals, p.Team2Goals) == actual

	if !HasOdds(odds) {
		switch {
		case exact:
			return ExactScorePoints
		case sameOutcome:
			return OutcomePoints
		default:
			return 0
		}
	}

	odd := relevantOdd(odds, actual)
	switch {
	case exact:
		return RoundOneDecimal(odd * 2)
	case sameOutcome:
		return RoundOneDecimal(odd)
	default:
		return 0
	}
}

func relevantOdd(odds *match.Odds, outcome Outcome) float64 {
	var v *float64
	switch outcome {
	case OutcomeHome:
		v = odds.HomeWin
	case OutcomeAway:
		v = odds.AwayWin
	default:
		v = odds.Draw
	}
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return defaultOdd
	}
	return *v
}

// Preview scores a bet against the match's current result. scored is false
// while the match has no result.
func Preview(p bet.Prediction, m match.Match) (points float64, scored bool) {
	if m.Result == nil {
		return 0, false
	}
	return ScoreBet(p, *m.Result, m.Odds), true
}
