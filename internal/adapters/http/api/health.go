// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haneul-games/wordrush/internal/domain/types"
	"github.com/haneul-games/wordrush/pkg/metrics"
)

// HealthDependencies defines the interface for store diagnostics.
type HealthDependencies interface {
	StoreHealth(ctx context.Context) types.StoreHealth
}

// HealthHandler serves Prometheus metrics and store connectivity checks.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleMetrics handles GET /healthz requests with Prometheus metrics from
// the custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// HandleStoreHealth handles GET /api/store/health requests. Always 200;
// connectivity problems ride in the body.
func (h *HealthHandler) HandleStoreHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.StoreHealth(r.Context()))
}
