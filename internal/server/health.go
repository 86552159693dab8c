package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ristorante/internal/dto"
	"ristorante/internal/httpx"
)

type StorePinger interface {
	Ping(ctx context.Context) error
}

type BrokerPinger interface {
	Ping() error
}

type healthHandler struct {
	store  StorePinger
	broker BrokerPinger
	logger *zap.Logger
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services: map[string]string{
			"database": "ok",
			"queue":    "ok",
		},
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		response.Services["database"] = "error"
	}
	if err := h.broker.Ping(); err != nil {
		h.logger.Warn("queue health check failed", zap.Error(err))
		response.Services["queue"] = "error"
	}

	status := http.StatusOK
	for _, s := range response.Services {
		if s != "ok" {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	httpx.WriteJSON(w, status, response, h.logger)
}
