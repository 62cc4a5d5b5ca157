package httpapi

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

type leagueRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Key    string `json:"key" validate:"required,max=40"`
	Color  string `json:"color" validate:"required,hexcolor"`
	Type   string `json:"type" validate:"required,oneof=club national other"`
	Region string `json:"region" validate:"omitempty,max=100"`
	Active *bool  `json:"active"`
	Order  int    `json:"order" validate:"gte=0"`
}

func (r leagueRequest) toInput() usecase.LeagueInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return usecase.LeagueInput{
		Name:   r.Name,
		Key:    r.Key,
		Color:  r.Color,
		Type:   league.Type(r.Type),
		Region: r.Region,
		Active: active,
		Order:  r.Order,
	}
}

type leagueDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Key    string `json:"key"`
	Color  string `json:"color"`
	Type   string `json:"type"`
	Region string `json:"region,omitempty"`
	Active bool   `json:"active"`
	Order  int    `json:"order"`
}

func toLeagueDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:     l.ID,
		Name:   l.Name,
		Key:    l.Key,
		Color:  l.Color,
		Type:   string(l.Type),
		Region: l.Region,
		Active: l.Active,
		Order:  l.Order,
	}
}

type weekRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Month  int    `json:"month" validate:"required,gte=1,lte=12"`
	Season string `json:"season" validate:"required,max=20"`
}

// lockTimeRequest is shared by activate and unlock. An empty body is valid.
type lockTimeRequest struct {
	LockTime string `json:"lock_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r lockTimeRequest) parse() (*time.Time, error) {
	if r.LockTime == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, r.LockTime)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type weekDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Month          int        `json:"month"`
	Season         string     `json:"season"`
	Active         bool       `json:"active"`
	Locked         bool       `json:"locked"`
	LockTime       *time.Time `json:"lock_time,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

func toWeekDTO(w week.Week) weekDTO {
	return weekDTO{
		ID:             w.ID,
		Name:           w.Name,
		Month:          w.Month,
		Season:         w.Season,
		Active:         w.Active,
		Locked:         w.Locked,
		LockTime:       w.LockTime,
		ReminderSentAt: w.ReminderSentAt,
	}
}

type activationDTO struct {
	Week              weekDTO         `json:"week"`
	Notification      notificationDTO `json:"notification"`
	NotificationError string          `json:"notification_error,omitempty"`
}

type notificationDTO struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type lockStatusDTO struct {
	WeekID  string `json:"week_id"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type oddsPayload struct {
	HomeWin *float64 `json:"home_win" validate:"omitempty,gt=0"`
	Draw    *float64 `json:"draw" validate:"omitempty,gt=0"`
	AwayWin *float64 `json:"away_win" validate:"omitempty,gt=0"`
}

func (o *oddsPayload) toDomain() *match.Odds {
	if o == nil {
		return nil
	}
	return &match.Odds{HomeWin: o.HomeWin, Draw: o.Draw, AwayWin: o.AwayWin}
}

func toOddsPayload(o *match.Odds) *oddsPayload {
	if o == nil {
		return nil
	}
	return &oddsPayload{HomeWin: o.HomeWin, Draw: o.Draw, AwayWin: o.AwayWin}
}

type matchRequest struct {
	LeagueID string       `json:"league_id" validate:"required"`
	Team1    string       `json:"team1" validate:"required,max=100"`
	Team2    string       `json:"team2" validate:"required,max=100"`
	Date     string       `json:"date" validate:"required"`
	Time     string       `json:"time" validate:"required"`
	Odds     *oddsPayload `json:"odds" validate:"omitempty"`
}

func (r matchRequest) toInput() usecase.MatchInput {
	return usecase.MatchInput{
		LeagueID: r.LeagueID,
		Team1:    r.Team1,
		Team2:    r.Team2,
		Date:     r.Date,
		Time:     r.Time,
		Odds:     r.Odds.toDomain(),
	}
}

type oddsRequest struct {
	Odds *oddsPayload `json:"odds" validate:"omitempty"`
}

type resultRequest struct {
	Team1Goals *int `json:"team1_goals" validate:"required,gte=0,lte=99"`
	Team2Goals *int `json:"team2_goals" validate:"required,gte=0,lte=99"`
}

type resultDTO struct {
	Team1Goals int `json:"team1_goals"`
	Team2Goals int `json:"team2_goals"`
}

type matchDTO struct {
	ID        string       `json:"id"`
	WeekID    string       `json:"week_id"`
	LeagueID  string       `json:"league_id"`
	Team1     string       `json:"team1"`
	Team2     string       `json:"team2"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
	Completed bool         `json:"completed"`
	Result    *resultDTO   `json:"result,omitempty"`
	Odds      *oddsPayload `json:"odds,omitempty"`
}

func toMatchDTO(m match.Match) matchDTO {
	dto := matchDTO{
		ID:        m.ID,
		WeekID:    m.WeekID,
		LeagueID:  m.LeagueID,
		Team1:     m.Team1,
		Team2:     m.Team2,
		Date:      m.Date,
		Time:      m.Time,
		Completed: m.Completed(),
		Odds:      toOddsPayload(m.Odds),
	}
	if m.Result != nil {
		dto.Result = &resultDTO{Team1Goals: m.Result.Team1Goals, Team2Goals: m.Result.Team2Goals}
	}
	return dto
}

type matchChangeDTO struct {
	Match       matchDTO                   `json:"match"`
	Aggregation usecase.AggregationReport `json:"aggregation"`
}

type predictionRequest struct {
	Team1Goals *int `json:"team1_goals" validate:"required,gte=0,lte=20"`
	Team2Goals *int `json:"team2_goals" validate:"required,gte=0,lte=20"`
}

type adminBetRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	MatchID    string `json:"match_id" validate:"required"`
	Team1Goals *int   `json:"team1_goals" validate:"required,gte=0,lte=20"`
	Team2Goals *int   `json:"team2_goals" validate:"required,gte=0,lte=20"`
}

type previewRequest struct {
	MatchID    string `json:"match_id" validate:"required"`
	Team1Goals *int   `json:"team1_goals" validate:"required,gte=0,lte=20"`
	Team2Goals *int   `json:"team2_goals" validate:"required,gte=0,lte=20"`
}

type previewDTO struct {
	MatchID string  `json:"match_id"`
	Points  float64 `json:"points"`
	Scored  bool    `json:"scored"`
}

type betDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	MatchID    string    `json:"match_id"`
	WeekID     string    `json:"week_id"`
	Team1Goals int       `json:"team1_goals"`
	Team2Goals int       `json:"team2_goals"`
	Points     float64   `json:"points"`
	Scored     bool      `json:"scored"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toBetDTO(v usecase.BetView) betDTO {
	return betDTO{
		ID:         v.Bet.ID,
		UserID:     v.Bet.UserID,
		Username:   v.Username,
		MatchID:    v.Bet.MatchID,
		WeekID:     v.Bet.WeekID,
		Team1Goals: v.Bet.Prediction.Team1Goals,
		Team2Goals: v.Bet.Prediction.Team2Goals,
		Points:     v.Points,
		Scored:     v.Scored,
		UpdatedAt:  v.Bet.UpdatedAt,
	}
}

func toBetDTOs(views []usecase.BetView) []betDTO {
	out := make([]betDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toBetDTO(v))
	}
	return out
}

type weekBetsDTO struct {
	Week     weekDTO  `json:"week"`
	Revealed bool     `json:"revealed"`
	Bets     []betDTO `json:"bets"`
}

type scoreDTO struct {
	WeekID      string    `json:"week_id"`
	WeeklyScore float64   `json:"weekly_score"`
	TotalScore  float64   `json:"total_score"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toScoreDTO(s score.Score) scoreDTO {
	return scoreDTO{
		WeekID:      s.WeekID,
		WeeklyScore: s.WeeklyScore,
		TotalScore:  s.TotalScore,
		UpdatedAt:   s.UpdatedAt,
	}
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toUserDTO(u user.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin player"`
}
