package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListWeeks")
	defer span.End()

	items, err := h.weekService.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list weeks failed", err)
		return
	}

	out := make([]weekDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toWeekDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetWeek")
	defer span.End()

	item, err := h.weekService.Get(ctx, r.PathValue("weekID"))
	if err != nil {
		h.fail(ctx, w, "get week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toWeekDTO(item))
}

// GetLockStatus evaluates the betting window and persists a lazy lock when
// the lock time has passed.
func (h *Handler) GetLockStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetLockStatus")
	defer span.End()

	weekID := r.PathValue("weekID")
	check, err := h.lockService.CheckAndMaybeLock(ctx, weekID, false)
	if err != nil {
		h.fail(ctx, w, "check lock status failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, lockStatusDTO{
		WeekID:  weekID,
		Allowed: check.Allowed,
		Reason:  string(check.Reason),
	})
}

func (h *Handler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.CreateWeek")
	defer span.End()

	var req weekRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.weekService.Create(ctx, usecase.WeekInput{Name: req.Name, Month: req.Month, Season: req.Season})
	if err != nil {
		h.fail(ctx, w, "create week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, toWeekDTO(created))
}

func (h *Handler) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UpdateWeek")
	defer span.End()

	var req weekRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.weekService.Update(ctx, r.PathValue("weekID"), usecase.WeekInput{Name: req.Name, Month: req.Month, Season: req.Season})
	if err != nil {
		h.fail(ctx, w, "update week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toWeekDTO(updated))
}

func (h *Handler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeleteWeek")
	defer span.End()

	if err := h.weekService.Delete(ctx, r.PathValue("weekID")); err != nil {
		h.fail(ctx, w, "delete week failed", err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) ActivateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ActivateWeek")
	defer span.End()

	var req lockTimeRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	lockTime, err := req.parse()
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: lock_time: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.weekService.Activate(ctx, usecase.ActivateWeekInput{
		WeekID:   r.PathValue("weekID"),
		LockTime: lockTime,
	})
	if err != nil {
		h.fail(ctx, w, "activate week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, activationDTO{
		Week: toWeekDTO(result.Week),
		Notification: notificationDTO{
			Sent:   result.Notification.Sent,
			Failed: result.Notification.Failed,
		},
		NotificationError: result.NotificationError,
	})
}

func (h *Handler) DeactivateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeactivateWeek")
	defer span.End()

	updated, err := h.weekService.Deactivate(ctx, r.PathValue("weekID"))
	if err != nil {
		h.fail(ctx, w, "deactivate week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toWeekDTO(updated))
}

func (h *Handler) LockWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.LockWeek")
	defer span.End()

	updated, err := h.weekService.Lock(ctx, r.PathValue("weekID"))
	if err != nil {
		h.fail(ctx, w, "lock week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toWeekDTO(updated))
}

func (h *Handler) UnlockWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UnlockWeek")
	defer span.End()

	var req lockTimeRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	lockTime, err := req.parse()
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: lock_time: %v", usecase.ErrInvalidInput, err))
		return
	}

	updated, err := h.weekService.Unlock(ctx, r.PathValue("weekID"), lockTime)
	if err != nil {
		h.fail(ctx, w, "unlock week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, toWeekDTO(updated))
}

func (h *Handler) RecomputeWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.RecomputeWeek")
	defer span.End()

	report, err := h.aggregationService.RecomputeWeek(ctx, r.PathValue("weekID"))
	if err != nil {
		h.fail(ctx, w, "recompute week failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}
