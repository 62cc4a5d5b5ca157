package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	TotalScore  float64 `json:"total_score"`
	WeeksPlayed int     `json:"weeks_played"`
}

type LeaderboardService struct {
	scoreRepo score.Repository
	userRepo  user.Repository
}

func NewLeaderboardService(scoreRepo score.Repository, userRepo user.Repository) *LeaderboardService {
	return &LeaderboardService{
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
	}
}

// Build ranks non-admin users by the sum of their weekly scores, highest
// first. Equal totals keep storage order and share a rank.
func (s *LeaderboardService) Build(ctx context.Context) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Build")
	defer span.End()

	rows, err := s.scoreRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	index := make(map[string]int)
	entries := make([]LeaderboardEntry, 0)
	for _, row := range rows {
		u, ok := byID[row.UserID]
		if !ok || u.IsAdmin() {
			continue
		}
		i, seen := index[row.UserID]
		if !seen {
			i = len(entries)
			index[row.UserID] = i
			entries = append(entries, LeaderboardEntry{UserID: u.ID, Username: u.Username})
		}
		entries[i].TotalScore += row.WeeklyScore
		entries[i].WeeksPlayed++
	}

	for i := range entries {
		entries[i].TotalScore = scoring.RoundOneDecimal(entries[i].TotalScore)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	for i := range entries {
		if i > 0 && entries[i].TotalScore == entries[i-1].TotalScore {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// ListUserScores returns one user's weekly history.
func (s *LeaderboardService) ListUserScores(ctx context.Context, userID string) ([]score.Score, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ListUserScores")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	rows, err := s.scoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user scores: %w", err)
	}
	return rows, nil
}
