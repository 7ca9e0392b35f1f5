// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/skudd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check and metrics scrape requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET /healthz requests by serving the custom
// Prometheus registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// StatsProvider defines the interface for service monitoring statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// ServiceStatsHandler handles monitoring requests.
type ServiceStatsHandler struct {
	statsProvider StatsProvider
}

// NewServiceStatsHandler creates a new monitoring handler.
func NewServiceStatsHandler(statsProvider StatsProvider) *ServiceStatsHandler {
	return &ServiceStatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *ServiceStatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.statsProvider.GetStats())
}
