package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func (h *Handler) SubmitBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SubmitBet")
	defer span.End()

	account, err := mustAccount(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req predictionRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.betService.Submit(ctx, usecase.SubmitBetInput{
		UserID:     account.ID,
		MatchID:    r.PathValue("matchID"),
		Prediction: bet.Prediction{Team1Goals: *req.Team1Goals, Team2Goals: *req.Team2Goals},
	})
	if err != nil {
		h.fail(ctx, w, "submit bet failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toBetDTO(usecase.BetView{Bet: saved, Username: account.Username, Points: saved.Points}))
}

// SubmitBetOverride lets an admin write a bet for any player regardless of
// the betting window.
func (h *Handler) SubmitBetOverride(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SubmitBetOverride")
	defer span.End()

	var req adminBetRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.betService.Submit(ctx, usecase.SubmitBetInput{
		UserID:        req.UserID,
		MatchID:       req.MatchID,
		Prediction:    bet.Prediction{Team1Goals: *req.Team1Goals, Team2Goals: *req.Team2Goals},
		AllowOverride: true,
	})
	if err != nil {
		h.fail(ctx, w, "submit bet override failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toBetDTO(usecase.BetView{Bet: saved, Points: saved.Points}))
}

func (h *Handler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeleteBet")
	defer span.End()

	account, err := mustAccount(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.betService.Delete(ctx, viewerOf(account), r.PathValue("betID")); err != nil {
		h.fail(ctx, w, "delete bet failed", err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) ListMyBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListMyBets")
	defer span.End()

	account, err := mustAccount(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.betService.ListMine(ctx, account.ID, strings.TrimSpace(r.URL.Query().Get("week_id")))
	if err != nil {
		h.fail(ctx, w, "list my bets failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toBetDTOs(views))
}

func (h *Handler) ListWeekBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListWeekBets")
	defer span.End()

	account, err := mustAccount(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.betService.ListWeek(ctx, viewerOf(account), r.PathValue("weekID"))
	if err != nil {
		h.fail(ctx, w, "list week bets failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, weekBetsDTO{
		Week:     toWeekDTO(result.Week),
		Revealed: result.Revealed,
		Bets:     toBetDTOs(result.Bets),
	})
}

// PreviewScore scores a hypothetical prediction against the match as it
// stands. Nothing is stored.
func (h *Handler) PreviewScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.PreviewScore")
	defer span.End()

	var req previewRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.Get(ctx, req.MatchID)
	if err != nil {
		h.fail(ctx, w, "preview score failed", err)
		return
	}

	points, scored := scoring.Preview(bet.Prediction{Team1Goals: *req.Team1Goals, Team2Goals: *req.Team2Goals}, m)
	writeSuccess(ctx, w, http.StatusOK, previewDTO{MatchID: m.ID, Points: points, Scored: scored})
}
