// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/apistats"
	"github.com/dalemusser/strataclub/internal/app/store/emailverify"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NotificationRetention is how long an expired notification is kept before
// the purge job removes it.
const NotificationRetention = 90 * 24 * time.Hour

// EmailVerificationCleanupJob removes expired sign-up codes hourly.
func EmailVerificationCleanupJob(store *emailverify.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "email-verification-cleanup",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			n, err := store.DeleteExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("cleaned up expired email verification codes", zap.Int64("deleted", n))
			}
			return nil
		},
	}
}

// NotificationPurgeJob creates a job that deletes notifications whose
// expiry_date lies more than retention in the past. expiry_date is a
// YYYY-MM-DD string, so the cutoff is compared lexically.
func NotificationPurgeJob(db *mongo.Database, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "notification-purge",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := storeutil.ISODate(time.Now().Add(-retention))
			result, err := db.Collection("notifications").DeleteMany(ctx, bson.M{
				"expiry_date": bson.M{"$lt": cutoff},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("purged old notifications",
					zap.Int64("deleted", result.DeletedCount),
					zap.String("cutoff", cutoff))
			}
			return nil
		},
	}
}

// APIStatsPurgeJob creates a job that deletes API stats buckets older than
// retention.
func APIStatsPurgeJob(store *apistats.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "api-stats-purge",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := store.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("purged old API stats", zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}
