package httpapi

import (
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetMe")
	defer span.End()

	account, err := mustAccount(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toUserDTO(account))
}

func (h *Handler) ListMyScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListMyScores")
	defer span.End()

	account, err := mustAccount(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scores, err := h.leaderboardService.ListUserScores(ctx, account.ID)
	if err != nil {
		h.fail(ctx, w, "list my scores failed", err)
		return
	}

	out := make([]scoreDTO, 0, len(scores))
	for _, s := range scores {
		out = append(out, toScoreDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.Build(ctx)
	if err != nil {
		h.fail(ctx, w, "build leaderboard failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListUsers")
	defer span.End()

	users, err := h.userService.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list users failed", err)
		return
	}

	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SetUserRole")
	defer span.End()

	var req roleRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.userService.SetRole(ctx, r.PathValue("userID"), user.Role(req.Role))
	if err != nil {
		h.fail(ctx, w, "set user role failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toUserDTO(updated))
}
