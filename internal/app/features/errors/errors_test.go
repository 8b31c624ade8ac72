package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", apperr.Invalid("bad id"), http.StatusBadRequest},
		{"not found", apperr.NotFound("thread", "Thread not found"), http.StatusNotFound},
		{"persistence", apperr.Persistence("Error fetching users", errors.New("boom")), http.StatusInternalServerError},
		{"unknown", errors.New("??"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/threads/x", nil)
	el.Render(rec, req, apperr.Persistence("Error fetching thread", errors.New("timeout")))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Error != "Error fetching thread: timeout" {
		t.Errorf("error = %q", body.Error)
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 error log, got %d", logs.Len())
	}

	rec = httptest.NewRecorder()
	el.Render(rec, req, apperr.NotFound("thread", "Thread not found"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if logs.Len() != 1 {
		t.Error("4xx responses should not be logged as errors")
	}
}
