package router

import (
	"context"
	"net/http"
	"sync"
	"time"

	"teamboard-api/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck is one dependency probed by /healthz.
// An optional check reports its state without failing the endpoint.
type HealthCheck struct {
	Name     string
	Check    func(ctx context.Context) error
	Optional bool
}

// HealthResponse is the /healthz body
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler runs every check concurrently and answers 503 when a required one fails
func HealthHandler(log *logger.Logger, checks ...HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		var (
			mu      sync.Mutex
			results = make(map[string]string, len(checks))
			healthy = true
		)

		var g errgroup.Group
		for _, hc := range checks {
			g.Go(func() error {
				err := hc.Check(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					results[hc.Name] = "unavailable"
					if !hc.Optional {
						healthy = false
					}
					log.WithField("check", hc.Name).WithError(err).Warn("Health check failed")
					return nil
				}
				results[hc.Name] = "ok"
				return nil
			})
		}
		_ = g.Wait()

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Checks: results})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Checks: results})
	}
}
