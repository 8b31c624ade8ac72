// internal/app/features/threads/handler.go
package threads

import (
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/threadhub/internal/app/features/errors"
	threadsvc "github.com/dalemusser/threadhub/internal/app/services/threads"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/limits"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves threads and replies.
type Handler struct {
	Threads *threadsvc.Service
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(svc *threadsvc.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Threads: svc, ErrLog: errLog, Log: logger}
}

func parseID(raw, what string) (primitive.ObjectID, error) {
	oid, err := normalize.ObjectID(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalid("bad %s id", what)
	}
	return oid, nil
}

// List handles GET /threads?page=&size=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := paging.ParseRequest(r)
	res, err := h.Threads.FetchThreads(r.Context(), page.Number, page.Size)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

// Show handles GET /threads/{threadID}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "threadID")
	id, err := parseID(raw, "thread")
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	v, err := h.Threads.FetchThreadByID(r.Context(), id)
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("thread_id", raw))
		return
	}
	if v == nil {
		uierrors.WriteError(w, http.StatusNotFound, "Thread not found")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, v)
}

type createRequest struct {
	Text        string `json:"text"`
	Author      string `json:"author"`      // author _id (hex)
	CommunityID string `json:"communityId"` // external community id, optional
	Path        string `json:"path"`
}

// Create handles POST /threads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxThreadBodySize)
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.Render(w, r, apperr.Invalid("malformed JSON body"))
		return
	}
	author, err := parseID(req.Author, "author")
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	t, err := h.Threads.CreateThread(r.Context(), threadsvc.CreateThreadParams{
		Text:        req.Text,
		AuthorID:    author,
		CommunityID: req.CommunityID,
		Path:        req.Path,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("author", req.Author))
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, t)
}

type commentRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Path   string `json:"path"`
}

// Comment handles POST /threads/{threadID}/comments.
func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "threadID")
	threadID, err := parseID(raw, "thread")
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxThreadBodySize)
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.Render(w, r, apperr.Invalid("malformed JSON body"))
		return
	}
	author, err := parseID(req.Author, "author")
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	reply, err := h.Threads.AddCommentToThread(r.Context(), threadID, req.Text, author, req.Path)
	if err != nil {
		h.ErrLog.Render(w, r, err, zap.String("thread_id", raw))
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, reply)
}
