package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BaGreal2/movieweb/internal/datamanager"
)

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Storage   struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"storage"`
}

// HealthHandler pings the store. Stores that cannot be pinged are reported as ok.
func HealthHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := Health{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		health.Storage.Status = "ok"

		if p, ok := dm.(datamanager.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				health.Status = "degraded"
				health.Storage.Status = "error"
				health.Storage.Message = "Storage ping failed"
				writeJSON(w, logger, http.StatusServiceUnavailable, health)
				return
			}
		}

		writeJSON(w, logger, http.StatusOK, health)
	}
}
