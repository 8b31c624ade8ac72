// internal/app/features/activity/handler.go
package activity

import (
	"net/http"

	uierrors "github.com/dalemusser/threadhub/internal/app/features/errors"
	activitysvc "github.com/dalemusser/threadhub/internal/app/services/activity"
	"github.com/dalemusser/threadhub/internal/app/services/directory"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves a user's activity feed.
type Handler struct {
	Directory *directory.Service
	Activity  *activitysvc.Service
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(dir *directory.Service, act *activitysvc.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Directory: dir, Activity: act, ErrLog: errLog, Log: logger}
}

// Serve handles GET /activity/{identityID}. Threads reference authors by
// _id, so the identity id is resolved to the user first.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "identityID")

	u, err := h.Directory.FetchUser(r.Context(), id)
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("identity_id", id))
		return
	}
	if u == nil {
		uierrors.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	items, err := h.Activity.GetActivity(r.Context(), u.ID)
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("identity_id", id))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, items)
}
