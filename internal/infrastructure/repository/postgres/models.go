package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
)

type leagueTableModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Key          string    `db:"key"`
	Color        string    `db:"color"`
	Type         string    `db:"type"`
	Region       string    `db:"region"`
	Active       bool      `db:"active"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:        m.ID,
		Name:      m.Name,
		Key:       m.Key,
		Color:     m.Color,
		Type:      league.Type(m.Type),
		Region:    m.Region,
		Active:    m.Active,
		Order:     m.DisplayOrder,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func leagueModel(l league.League) leagueTableModel {
	return leagueTableModel{
		ID:           l.ID,
		Name:         l.Name,
		Key:          l.Key,
		Color:        l.Color,
		Type:         string(l.Type),
		Region:       l.Region,
		Active:       l.Active,
		DisplayOrder: l.Order,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

type weekTableModel struct {
	ID             string     `db:"id"`
	Name           string     `db:"name"`
	Month          int        `db:"month"`
	Season         string     `db:"season"`
	Active         bool       `db:"active"`
	Locked         bool       `db:"locked"`
	LockTime       *time.Time `db:"lock_time"`
	ReminderSentAt *time.Time `db:"reminder_sent_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (m weekTableModel) toDomain() week.Week {
	return week.Week{
		ID:             m.ID,
		Name:           m.Name,
		Month:          m.Month,
		Season:         m.Season,
		Active:         m.Active,
		Locked:         m.Locked,
		LockTime:       m.LockTime,
		ReminderSentAt: m.ReminderSentAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func weekModel(w week.Week) weekTableModel {
	return weekTableModel{
		ID:             w.ID,
		Name:           w.Name,
		Month:          w.Month,
		Season:         w.Season,
		Active:         w.Active,
		Locked:         w.Locked,
		LockTime:       w.LockTime,
		ReminderSentAt: w.ReminderSentAt,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

type matchTableModel struct {
	ID         string          `db:"id"`
	WeekID     string          `db:"week_id"`
	LeagueID   string          `db:"league_id"`
	Team1      string          `db:"team1"`
	Team2      string          `db:"team2"`
	MatchDate  string          `db:"match_date"`
	MatchTime  string          `db:"match_time"`
	Team1Goals sql.NullInt64   `db:"team1_goals"`
	Team2Goals sql.NullInt64   `db:"team2_goals"`
	OddsHome   sql.NullFloat64 `db:"odds_home"`
	OddsDraw   sql.NullFloat64 `db:"odds_draw"`
	OddsAway   sql.NullFloat64 `db:"odds_away"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	out := match.Match{
		ID:        m.ID,
		WeekID:    m.WeekID,
		LeagueID:  m.LeagueID,
		Team1:     m.Team1,
		Team2:     m.Team2,
		Date:      m.MatchDate,
		Time:      m.MatchTime,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Team1Goals.Valid && m.Team2Goals.Valid {
		out.Result = &match.Result{Team1Goals: int(m.Team1Goals.Int64), Team2Goals: int(m.Team2Goals.Int64)}
	}
	if m.OddsHome.Valid || m.OddsDraw.Valid || m.OddsAway.Valid {
		out.Odds = &match.Odds{
			HomeWin: floatPtr(m.OddsHome),
			Draw:    floatPtr(m.OddsDraw),
			AwayWin: floatPtr(m.OddsAway),
		}
	}
	return out
}

func matchModel(m match.Match) matchTableModel {
	row := matchTableModel{
		ID:        m.ID,
		WeekID:    m.WeekID,
		LeagueID:  m.LeagueID,
		Team1:     m.Team1,
		Team2:     m.Team2,
		MatchDate: m.Date,
		MatchTime: m.Time,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Result != nil {
		row.Team1Goals = sql.NullInt64{Int64: int64(m.Result.Team1Goals), Valid: true}
		row.Team2Goals = sql.NullInt64{Int64: int64(m.Result.Team2Goals), Valid: true}
	}
	if m.Odds != nil {
		row.OddsHome = nullFloat(m.Odds.HomeWin)
		row.OddsDraw = nullFloat(m.Odds.Draw)
		row.OddsAway = nullFloat(m.Odds.AwayWin)
	}
	return row
}

type betTableModel struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	MatchID    string    `db:"match_id"`
	WeekID     string    `db:"week_id"`
	Team1Goals int       `db:"team1_goals"`
	Team2Goals int       `db:"team2_goals"`
	Points     float64   `db:"points"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m betTableModel) toDomain() bet.Bet {
	return bet.Bet{
		ID:         m.ID,
		UserID:     m.UserID,
		MatchID:    m.MatchID,
		WeekID:     m.WeekID,
		Prediction: bet.Prediction{Team1Goals: m.Team1Goals, Team2Goals: m.Team2Goals},
		Points:     m.Points,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// scoreTableModel omits the seq column, which only fixes storage order.
type scoreTableModel struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	WeekID      string    `db:"week_id"`
	WeeklyScore float64   `db:"weekly_score"`
	TotalScore  float64   `db:"total_score"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m scoreTableModel) toDomain() score.Score {
	return score.Score{
		ID:          m.ID,
		UserID:      m.UserID,
		WeekID:      m.WeekID,
		WeeklyScore: m.WeeklyScore,
		TotalScore:  m.TotalScore,
		UpdatedAt:   m.UpdatedAt,
	}
}

type userTableModel struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:        m.ID,
		Username:  m.Username,
		Role:      user.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

const (
	leagueColumns = "id, name, key, color, type, region, active, display_order, created_at, updated_at"
	weekColumns   = "id, name, month, season, active, locked, lock_time, reminder_sent_at, created_at, updated_at"
	matchColumns  = "id, week_id, league_id, team1, team2, match_date, match_time, team1_goals, team2_goals, odds_home, odds_draw, odds_away, created_at, updated_at"
	betColumns    = "id, user_id, match_id, week_id, team1_goals, team2_goals, points, created_at, updated_at"
	scoreColumns  = "id, user_id, week_id, weekly_score, total_score, updated_at"
	userColumns   = "id, username, role, created_at, updated_at"
)
