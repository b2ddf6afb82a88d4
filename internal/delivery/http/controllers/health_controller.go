package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	h "workshopsite/internal/delivery/http/helpers"
)

// HealthCheck probes one dependency (database, cache).
type HealthCheck func(ctx context.Context) error

// HealthResponse maps each dependency to "ok" or its error text.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type HealthController struct {
	Checks  map[string]HealthCheck
	Timeout time.Duration
}

func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{Checks: checks, Timeout: 2 * time.Second}
}

// Healthz godoc
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=controllers.HealthResponse}
// @Failure 503 {object} helpers.APIResponse{data=controllers.HealthResponse}
// @Router /healthz [get]
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	names := make([]string, 0, len(c.Checks))
	for name := range c.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, name := range names {
		if err := c.Checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	h.WriteJSONSuccess(w, r, status, resp)
}
