// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/strataclub/internal/app/store/apistats"
	"github.com/dalemusser/strataclub/internal/app/store/emailverify"
	"github.com/dalemusser/strataclub/internal/app/system/seeding"
	"github.com/dalemusser/strataclub/internal/app/system/tasks"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	err := seeding.EnsureAdmin(ctx, deps.MongoDatabase, seeding.Admin{
		Email:     appCfg.SeedAdminEmail,
		Password:  appCfg.SeedAdminPassword,
		Name:      appCfg.SeedAdminName,
		StudentID: appCfg.SeedAdminStudentID,
	}, logger)
	if err != nil {
		logger.Error("failed to seed admin user", zap.Error(err))
		return err
	}

	startTaskRunner(deps.MongoDatabase, appCfg, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner registers the cleanup jobs and starts them.
func startTaskRunner(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.EmailVerificationCleanupJob(emailverify.New(db, appCfg.EmailVerifyExpiry), logger))
	taskRunner.Register(tasks.NotificationPurgeJob(db, logger, appCfg.NotificationRetention))
	taskRunner.Register(tasks.APIStatsPurgeJob(apistats.New(db), logger, appCfg.APIStatsRetention))
	taskRunner.Start()
}
