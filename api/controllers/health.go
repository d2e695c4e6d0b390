package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/nutritrack/food-catalog/api/responses"
	"github.com/nutritrack/food-catalog/pkg/config"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"github.com/nutritrack/food-catalog/pkg/logger"
)

const (
	serviceName      = "food-service"
	readinessTimeout = 2 * time.Second
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(context.Context) error
}

func Root(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"message": "NutriTrack Food Service API",
			"docs":    "/docs",
			"health":  "/health",
			"version": cfg.App.Version,
		})
	}
}

func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":  "ok",
			"service": serviceName,
			"version": cfg.App.Version,
		})
	}
}

// HealthReady reports ready only when every named dependency answers a ping.
// Nil pingers are skipped.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		failed := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
