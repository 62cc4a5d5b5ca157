package httpapi

import (
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func (h *Handler) ListWeekMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListWeekMatches")
	defer span.End()

	items, err := h.matchService.ListByWeek(ctx, r.PathValue("weekID"))
	if err != nil {
		h.fail(ctx, w, "list matches failed", err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toMatchDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.CreateMatch")
	defer span.End()

	var req matchRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, r.PathValue("weekID"), req.toInput())
	if err != nil {
		h.fail(ctx, w, "create match failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, toMatchDTO(created))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UpdateMatch")
	defer span.End()

	var req matchRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.Update(ctx, r.PathValue("matchID"), req.toInput())
	if err != nil {
		h.fail(ctx, w, "update match failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeleteMatch")
	defer span.End()

	report, err := h.matchService.Delete(ctx, r.PathValue("matchID"))
	if err != nil {
		h.fail(ctx, w, "delete match failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) SetMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SetMatchResult")
	defer span.End()

	var req resultRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	change, err := h.matchService.SetResult(ctx, r.PathValue("matchID"), match.Result{
		Team1Goals: *req.Team1Goals,
		Team2Goals: *req.Team2Goals,
	})
	if err != nil {
		h.fail(ctx, w, "set match result failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toMatchChangeDTO(change))
}

func (h *Handler) ClearMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ClearMatchResult")
	defer span.End()

	change, err := h.matchService.ClearResult(ctx, r.PathValue("matchID"))
	if err != nil {
		h.fail(ctx, w, "clear match result failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toMatchChangeDTO(change))
}

// SetMatchOdds replaces the odds. A null or missing odds object clears them.
func (h *Handler) SetMatchOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SetMatchOdds")
	defer span.End()

	var req oddsRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	change, err := h.matchService.SetOdds(ctx, r.PathValue("matchID"), req.Odds.toDomain())
	if err != nil {
		h.fail(ctx, w, "set match odds failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toMatchChangeDTO(change))
}

func toMatchChangeDTO(change usecase.MatchChange) matchChangeDTO {
	return matchChangeDTO{Match: toMatchDTO(change.Match), Aggregation: change.Report}
}
