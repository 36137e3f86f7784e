// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background worker, closes every UI session and tears
// down the DB connection.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if rt := current; rt != nil {
		rt.notifier.Stop()
		rt.sessions.CloseAll()
		current = nil
	}

	if deps.AdminHubMongoClient != nil {
		logger.Info("disconnecting AdminHub MongoDB client")
		if err := deps.AdminHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
