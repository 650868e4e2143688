package http

import (
	"net/http"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/httpx"
	"github.com/cloudfleet/clientregistry/pkg/registrysdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe that pings the record store through its worker pool
//	@Description	Returns 503 while the store is unreachable or shut down
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	registrysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	registrysdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &registrysdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if _, err := st.Ping(r.Context()).Await(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, registrysdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
