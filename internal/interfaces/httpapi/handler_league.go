package httpapi

import (
	"net/http"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.leagueService.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list leagues failed", err)
		return
	}

	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toLeagueDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.CreateLeague")
	defer span.End()

	var req leagueRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.leagueService.Create(ctx, req.toInput())
	if err != nil {
		h.fail(ctx, w, "create league failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, toLeagueDTO(created))
}

func (h *Handler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UpdateLeague")
	defer span.End()

	var req leagueRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.leagueService.Update(ctx, r.PathValue("leagueID"), req.toInput())
	if err != nil {
		h.fail(ctx, w, "update league failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toLeagueDTO(updated))
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeleteLeague")
	defer span.End()

	if err := h.leagueService.Delete(ctx, r.PathValue("leagueID")); err != nil {
		h.fail(ctx, w, "delete league failed", err)
		return
	}
	writeNoContent(w)
}
