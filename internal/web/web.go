// Package web exposes the import trigger over HTTP for the club dashboard:
// a run endpoint, a last-run status endpoint, health, and Prometheus
// metrics. No UI is rendered here.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clubdash/ffcv-import/internal/importer"
	"github.com/clubdash/ffcv-import/internal/metrics"
)

// Importer is the session surface the HTTP layer needs.
type Importer interface {
	Run(ctx context.Context) importer.Result
	LastResult() (importer.Result, bool)
	LastRun() (time.Time, bool)
}

// RegisterRoutes mounts the import API on the router. metrics may be nil,
// in which case /metrics is not registered.
func RegisterRoutes(r *gin.Engine, imp Importer, m *metrics.Metrics) {
	h := &handler{imp: imp}

	r.GET("/healthz", h.health)
	r.POST("/api/import/run", h.run)
	r.GET("/api/import/status", h.status)

	if m != nil {
		r.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}),
		))
	}
}

type handler struct {
	imp Importer
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// run triggers a synchronous import and reports the result. The caller
// waits for the run to finish; concurrent triggers are serialized by the
// session itself.
func (h *handler) run(c *gin.Context) {
	res := h.imp.Run(c.Request.Context())

	switch {
	case res.Success:
		c.JSON(http.StatusOK, res)
	case res.Error == importer.ErrNotConfigured.Error():
		c.JSON(http.StatusConflict, res)
	default:
		c.JSON(http.StatusBadGateway, res)
	}
}

func (h *handler) status(c *gin.Context) {
	last, ok := h.imp.LastResult()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no import has run yet"})
		return
	}

	body := gin.H{"last_result": last}
	if t, ok := h.imp.LastRun(); ok {
		body["last_success"] = t.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}
