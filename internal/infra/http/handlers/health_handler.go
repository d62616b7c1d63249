package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type BrokerStatus interface {
	IsClosed() bool
}

type HealthHandler struct {
	Store         Pinger
	StorageDriver string
	Broker        BrokerStatus
	Version       string
	StartTime     time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler: broker may be nil when no RabbitMQ URL is configured.
func NewHealthHandler(store Pinger, storageDriver string, broker BrokerStatus) *HealthHandler {
	return &HealthHandler{
		Store:         store,
		StorageDriver: storageDriver,
		Broker:        broker,
		Version:       "1.0.0",
		StartTime:     time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Storage
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		deps["storage"] = fmt.Sprintf("unhealthy: %v", err)
	} else {
		deps["storage"] = "healthy (" + h.StorageDriver + ")"
	}

	// RabbitMQ
	if h.Broker != nil {
		if h.Broker.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if strings.HasPrefix(v, "unhealthy") {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
