// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

type waiter interface{ Wait() }

// Shutdown drains pending revalidation signals, then disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if w, ok := deps.Notifier.(waiter); ok {
		done := make(chan struct{})
		go func() {
			w.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			logger.Warn("revalidation signals still pending at shutdown")
		}
	}

	if writeLimiter != nil {
		writeLimiter.Close()
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting threadhub MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
