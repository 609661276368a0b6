// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthfeature "github.com/clanhq/warden/internal/app/features/health"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// The bot's real surface is the Discord gateway; HTTP exists for load
// balancers and operators only, so the router carries just the health and
// status endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(sessionMonitor{deps.Session}, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Get("/status", healthHandler.ServeStatus)

	return r, nil
}

// sessionMonitor adapts the discordgo session to the health feature's
// Monitor interface.
type sessionMonitor struct {
	s *discordgo.Session
}

func (m sessionMonitor) HeartbeatLatency() time.Duration {
	return m.s.HeartbeatLatency()
}

func (m sessionMonitor) Guilds() int {
	m.s.State.RLock()
	defer m.s.State.RUnlock()
	return len(m.s.State.Guilds)
}
