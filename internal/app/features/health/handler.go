package health

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Monitor reports the Discord gateway connection, the one backend this
// service has.
type Monitor interface {
	// HeartbeatLatency is the round-trip of the last gateway heartbeat;
	// zero means no heartbeat has been acknowledged yet.
	HeartbeatLatency() time.Duration
	// Guilds is the number of guilds the session currently sees.
	Guilds() int
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Mon     Monitor
	Started time.Time
	Log     *zap.Logger
}

// NewHandler constructs a health Handler over the gateway monitor.
func NewHandler(mon Monitor, logger *zap.Logger) *Handler {
	return &Handler{
		Mon:     mon,
		Started: time.Now(),
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status  string `json:"status"`
	Gateway string `json:"gateway"`
	Message string `json:"message,omitempty"`
}

// statusResponse is the JSON structure for the status endpoint.
type statusResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Guilds    int    `json:"guilds"`
	LatencyMS int64  `json:"gateway_latency_ms"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "gateway":"connected" }
//
// Before the first heartbeat ack (or after the connection drops): 503 and
//
//	{ "status":"error", "gateway":"disconnected", "message":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.Mon.HeartbeatLatency() <= 0 {
		h.Log.Warn("health-check: gateway heartbeat not acknowledged")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "error",
			Gateway: "disconnected",
			Message: "Discord gateway unavailable",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Gateway: "connected"})
}

// ServeStatus handles GET /status with uptime and guild visibility for
// operators.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResponse{
		Status:    "ok",
		Uptime:    time.Since(h.Started).Round(time.Second).String(),
		Guilds:    h.Mon.Guilds(),
		LatencyMS: h.Mon.HeartbeatLatency().Milliseconds(),
	})
}
