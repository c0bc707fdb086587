// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the scan scheduler, releases limiters, and disconnects
// MongoDB. A scan in progress is cancelled; notifications it already wrote
// are kept.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc := services; svc != nil {
		if svc.Runner != nil {
			svc.Runner.Stop()
		}
		svc.AILimiter.Close()
		if svc.LoginLimiter != nil {
			svc.LoginLimiter.Close()
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
