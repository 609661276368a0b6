// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly closes the gateway session.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	if deps.Session != nil {
		logger.Info("closing discord gateway session")
		if err := deps.Session.Close(); err != nil {
			logger.Error("gateway close failed", zap.Error(err))
			return err
		}
	}
	return nil
}
