// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activityfeature "github.com/dalemusser/threadhub/internal/app/features/activity"
	errorsfeature "github.com/dalemusser/threadhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/threadhub/internal/app/features/health"
	threadsfeature "github.com/dalemusser/threadhub/internal/app/features/threads"
	usersfeature "github.com/dalemusser/threadhub/internal/app/features/users"
	"github.com/dalemusser/threadhub/internal/app/services/activity"
	"github.com/dalemusser/threadhub/internal/app/services/directory"
	"github.com/dalemusser/threadhub/internal/app/services/threads"
	"github.com/dalemusser/threadhub/internal/app/system/ratelimit"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// writeLimiter is shared by every mutating route; Shutdown stops its sweeper.
var writeLimiter *ratelimit.Limiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The three services share one database handle and
// one revalidation notifier; each feature mounts its own subrouter.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	notify := deps.Notifier
	if notify == nil {
		notify = revalidate.LogNotifier{Log: logger}
	}

	dir := directory.New(deps.MongoDatabase, notify, logger)
	threadSvc := threads.New(deps.MongoDatabase, notify, logger)
	activitySvc := activity.New(deps.MongoDatabase, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	writeLimiter = ratelimit.New(appCfg.WriteRateLimit, appCfg.WriteRateWindow)
	throttle := ratelimit.Writes(writeLimiter, appCfg.TrustProxyHeaders, errorsfeature.WriteError)

	usersHandler := usersfeature.NewHandler(dir, errLog, logger)
	r.With(throttle).Mount("/users", usersfeature.Routes(usersHandler))

	threadsHandler := threadsfeature.NewHandler(threadSvc, errLog, logger)
	r.With(throttle).Mount("/threads", threadsfeature.Routes(threadsHandler))

	activityHandler := activityfeature.NewHandler(dir, activitySvc, errLog, logger)
	r.Mount("/activity", activityfeature.Routes(activityHandler))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errorsfeature.WriteError(w, http.StatusNotFound, "Not found")
	})

	return r, nil
}
