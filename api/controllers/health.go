package controllers

import (
	"net/http"

	"github.com/anandkrishnan/mealdash-backend/api/responses"
	"github.com/anandkrishnan/mealdash-backend/pkg/config"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	pkgredis "github.com/anandkrishnan/mealdash-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MealDash-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the cache. A failed ping returns
// a dependency error so the load balancer pulls the instance.
func HealthReady(cfg *config.Config, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MealDash-Env", cfg.App.Env)
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
