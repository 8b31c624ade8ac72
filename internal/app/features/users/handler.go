// internal/app/features/users/handler.go
package users

// Terminology: User Identifiers
//   - IdentityID / identityID: the identity provider's id; every route in
//     this feature is keyed by it.

import (
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/threadhub/internal/app/features/errors"
	"github.com/dalemusser/threadhub/internal/app/services/directory"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/limits"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the user directory.
type Handler struct {
	Directory *directory.Service
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(dir *directory.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Directory: dir, ErrLog: errLog, Log: logger}
}

// Search handles GET /users?viewer=&q=&page=&size=&sort=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page := paging.ParseRequest(r)
	res, err := h.Directory.SearchUsers(r.Context(), directory.SearchParams{
		IdentityID:    normalize.QueryParam(query.Get(r, "viewer")),
		SearchString:  query.Get(r, "q"),
		PageNumber:    page.Number,
		PageSize:      page.Size,
		SortDirection: normalize.QueryParam(query.Get(r, "sort")),
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

// Show handles GET /users/{identityID}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
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
	uierrors.WriteJSON(w, http.StatusOK, u)
}

// Posts handles GET /users/{identityID}/threads.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "identityID")
	posts, err := h.Directory.FetchUserPosts(r.Context(), id)
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("identity_id", id))
		return
	}
	if posts == nil {
		uierrors.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, posts)
}

type upsertRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Path     string `json:"path"`
}

// Upsert handles PUT /users/{identityID}.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "identityID")

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxProfileBodySize)
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.Render(w, r, apperr.Invalid("malformed JSON body"))
		return
	}

	err := h.Directory.UpsertUser(r.Context(), directory.UpsertUserParams{
		IdentityID: id,
		Username:   req.Username,
		Name:       req.Name,
		Bio:        req.Bio,
		Image:      req.Image,
		Path:       req.Path,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("identity_id", id))
		return
	}
	h.Log.Info("profile saved", zap.String("identity_id", id))
	w.WriteHeader(http.StatusNoContent)
}
