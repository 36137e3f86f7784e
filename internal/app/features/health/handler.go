package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client   Pinger
	Breakers []*remote.Breaker
	Log      *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the
// service breakers and logger.
func NewHandler(client Pinger, breakers []*remote.Breaker, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		Breakers: breakers,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string          `json:"status"`
	Database string          `json:"database"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
	Services []serviceStatus `json:"services"`
}

type serviceStatus struct {
	Name    string `json:"name"`
	Breaker string `json:"breaker"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "services":[{"name":"i18n","breaker":"closed"}] }
//
// An open or half-open breaker turns the status into "degraded" but keeps
// 200, since the console still answers through the fallbacks.
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.Log, "health ping")
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Services: make([]serviceStatus, 0, len(h.Breakers)),
	}

	for _, b := range h.Breakers {
		st := b.State()
		resp.Services = append(resp.Services, serviceStatus{Name: b.Name(), Breaker: st.String()})
		if st != remote.BreakerClosed {
			resp.Status = "degraded"
		}
	}

	// Check database
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
