// Package revalidate signals the rendering layer that a page's cached data is
// stale. Signals are fire-and-forget: a failed signal is logged and never
// fails the write that produced it.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileEditPath is the only path upsertUser revalidates.
const ProfileEditPath = "/profile/edit"

// SecretHeader carries the shared secret on HTTP signals.
const SecretHeader = "X-Revalidate-Secret"

// Notifier receives revalidation signals.
type Notifier interface {
	Revalidate(ctx context.Context, path string)
}

// LogNotifier only logs. Used when no endpoint is configured.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Revalidate(_ context.Context, path string) {
	if n.Log != nil {
		n.Log.Info("revalidate", zap.String("path", path))
	}
}

// HTTPNotifier POSTs {"path": ...} to URL in the background.
type HTTPNotifier struct {
	URL     string
	Secret  string
	Timeout time.Duration
	Client  *http.Client
	Log     *zap.Logger

	wg sync.WaitGroup
}

// NewHTTPNotifier builds a notifier with its own client.
func NewHTTPNotifier(url, secret string, timeout time.Duration, log *zap.Logger) *HTTPNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPNotifier{
		URL:     url,
		Secret:  secret,
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

// Revalidate returns immediately; delivery happens on a goroutine detached
// from ctx's cancellation so a finished request does not abort it.
func (n *HTTPNotifier) Revalidate(ctx context.Context, path string) {
	reqID := uuid.NewString()
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		start := time.Now()
		if err := n.send(ctx, reqID, path); err != nil {
			n.Log.Warn("revalidate failed",
				zap.String("path", path),
				zap.String("request_id", reqID),
				zap.Error(err))
			return
		}
		n.Log.Debug("revalidated",
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.String("took", time.Since(start).String()))
	}()
}

func (n *HTTPNotifier) send(ctx context.Context, reqID, path string) error {
	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if n.Secret != "" {
		req.Header.Set(SecretHeader, n.Secret)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until in-flight signals finish. Called at shutdown.
func (n *HTTPNotifier) Wait() { n.wg.Wait() }

// Recorder keeps every signal in memory.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) Revalidate(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Paths returns a copy of the recorded paths in arrival order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
