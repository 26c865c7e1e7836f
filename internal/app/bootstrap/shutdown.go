// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown runs after the HTTP server has drained, within the deadline on
// ctx. Background jobs stop first so nothing writes after MongoDB
// disconnects. Every step runs; the first error is returned.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"task runner", func() error {
			if taskRunner == nil {
				return nil
			}
			return taskRunner.Stop(ctx)
		}},
		{"redis", deps.Cache.Close},
		{"mongodb", func() error {
			if deps.MongoClient == nil {
				return nil
			}
			return deps.MongoClient.Disconnect(ctx)
		}},
	}

	var firstErr error
	for _, s := range steps {
		logger.Info("shutting down", zap.String("component", s.name))
		if err := s.run(); err != nil {
			logger.Warn("shutdown step failed", zap.String("component", s.name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
