package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Services struct {
	Leagues     *usecase.LeagueService
	Weeks       *usecase.WeekService
	Matches     *usecase.MatchService
	Bets        *usecase.BetService
	Lock        *usecase.LockService
	Aggregation *usecase.AggregationService
	Leaderboard *usecase.LeaderboardService
	Users       *usecase.UserService
}

type Handler struct {
	leagueService      *usecase.LeagueService
	weekService        *usecase.WeekService
	matchService       *usecase.MatchService
	betService         *usecase.BetService
	lockService        *usecase.LockService
	aggregationService *usecase.AggregationService
	leaderboardService *usecase.LeaderboardService
	userService        *usecase.UserService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:      services.Leagues,
		weekService:        services.Weeks,
		matchService:       services.Matches,
		betService:         services.Bets,
		lockService:        services.Lock,
		aggregationService: services.Aggregation,
		leaderboardService: services.Leaderboard,
		userService:        services.Users,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into payload and validates it. When
// allowEmpty is set a missing body leaves payload at its zero value.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if !allowEmpty {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return h.validateRequest(ctx, payload)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "error", err)
	}
	writeError(ctx, w, err)
}

func viewerOf(account user.User) usecase.Viewer {
	return usecase.Viewer{UserID: account.ID, IsAdmin: account.IsAdmin()}
}

func mustAccount(ctx context.Context) (user.User, error) {
	account, ok := accountFromContext(ctx)
	if !ok {
		return user.User{}, fmt.Errorf("%w: missing account", usecase.ErrUnauthorized)
	}
	return account, nil
}
