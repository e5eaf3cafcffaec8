package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mgilberte/opsdeck-backend/api/responses"
	"github.com/mgilberte/opsdeck-backend/pkg/config"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OpsDeck-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores and reports per-component status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OpsDeck-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		components := map[string]string{}
		healthy := true

		components["db"] = checkComponent(ctx, logg, "db", dbP, &healthy)
		components["redis"] = checkComponent(ctx, logg, "redis", redisP, &healthy)

		status := "ready"
		httpStatus := http.StatusOK
		if !healthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status":     status,
			"components": components,
		})
	}
}

func checkComponent(ctx context.Context, logg *logger.Logger, name string, p pinger, healthy *bool) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		*healthy = false
		if logg != nil {
			logg.Error(logg.WithField(ctx, "component", name), "health check failed", err)
		}
		return "down"
	}
	return "up"
}
