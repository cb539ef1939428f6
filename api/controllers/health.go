package controllers

import (
	"net/http"

	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/pkg/config"
	"github.com/granizoapp/granizo-backend/pkg/db"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	pkgredis "github.com/granizoapp/granizo-backend/pkg/redis"
)

const envHeader = "X-Granizo-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency status. Redis being down degrades the
// POS to memory-only sessions, so it is reported but does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{
			"db":    "ok",
			"redis": "ok",
		}
		ready := true

		if dbP == nil {
			checks["db"] = "not configured"
			ready = false
		} else if err := dbP.Ping(r.Context()); err != nil {
			checks["db"] = err.Error()
			ready = false
		}

		if redisP == nil {
			checks["redis"] = "not configured"
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["redis"] = err.Error()
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "redis unreachable, sessions not durable")
			}
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !ready {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
