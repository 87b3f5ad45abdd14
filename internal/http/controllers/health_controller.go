package controllers

import (
	"net/http"

	"github.com/dropDatabas3/searchjohn/internal/http/helpers"
)

// HealthController maneja los health checks del nodo.
type HealthController struct {
	ready func() bool
}

// NewHealthController crea el controller de health. ready == nil reporta
// siempre listo.
func NewHealthController(ready func() bool) *HealthController {
	return &HealthController{ready: ready}
}

// Healthz maneja GET /healthz (liveness).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz (readiness).
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	if c.ready != nil && !c.ready() {
		helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
