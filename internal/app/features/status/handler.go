// internal/app/features/status/handler.go
package status

import (
	"net/http"
	"runtime"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ConfigItem is one displayed configuration value. Secrets are never listed.
type ConfigItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ConfigGroup groups related configuration values.
type ConfigGroup struct {
	Name  string       `json:"name"`
	Items []ConfigItem `json:"items"`
}

// Handler serves the service status view and the Prometheus endpoint.
type Handler struct {
	Breakers []*remote.Breaker
	Sessions *uisession.Registry
	Gatherer prometheus.Gatherer
	Config   []ConfigGroup
	Started  time.Time
	Log      *zap.Logger
}

// NewHandler constructs a status Handler. started is the process start time.
func NewHandler(breakers []*remote.Breaker, sessions *uisession.Registry, gatherer prometheus.Gatherer, cfg []ConfigGroup, started time.Time, logger *zap.Logger) *Handler {
	return &Handler{
		Breakers: breakers,
		Sessions: sessions,
		Gatherer: gatherer,
		Config:   cfg,
		Started:  started,
		Log:      logger,
	}
}

// RegisterCollectors adds the console's own gauges to reg.
func RegisterCollectors(reg prometheus.Registerer, sessions *uisession.Registry) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "adminhub",
		Name:      "ui_sessions",
		Help:      "Number of live UI sessions",
	}, func() float64 { return float64(sessions.Len()) }))
}

type serviceRow struct {
	Name    string `json:"name"`
	Breaker string `json:"breaker"`
}

type statusResponse struct {
	Uptime     string        `json:"uptime"`
	UISessions int           `json:"uiSessions"`
	Goroutines int           `json:"goroutines"`
	Services   []serviceRow  `json:"services"`
	Config     []ConfigGroup `json:"config"`
}

// ServeStatus handles GET /monitoring/services.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Uptime:     time.Since(h.Started).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Services:   make([]serviceRow, 0, len(h.Breakers)),
		Config:     h.Config,
	}
	if h.Sessions != nil {
		resp.UISessions = h.Sessions.Len()
	}
	if resp.Config == nil {
		resp.Config = []ConfigGroup{}
	}
	for _, b := range h.Breakers {
		resp.Services = append(resp.Services, serviceRow{Name: b.Name(), Breaker: b.State().String()})
	}
	jsonio.Write(w, http.StatusOK, resp)
}

// ServeMetrics returns the Prometheus exposition handler for h.Gatherer.
func (h *Handler) ServeMetrics() http.Handler {
	return promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})
}

// HandleReset handles POST /monitoring/services/{name}/reset, closing the
// named breaker so the next call goes to the real service.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, b := range h.Breakers {
		if b.Name() == name {
			b.Reset()
			h.Log.Info("breaker reset by operator", zap.String("service", name))
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	jsonio.Error(w, http.StatusNotFound, "unknown service")
}
