// Package events manages the event catalog: admin CRUD with poster uploads,
// public paging, and the cached home and upcoming lists.
package events

import (
	"context"
	"time"

	eventstore "github.com/dalemusser/strataclub/internal/app/store/events"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/cache"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// homeEventCount is how many events the home page shows.
const homeEventCount = 3

// Handler serves the event endpoints.
type Handler struct {
	events  *eventstore.Store
	uploads *uploads.Uploader
	cache   *cache.Client // nil disables caching
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates an events Handler.
func NewHandler(db *mongo.Database, up *uploads.Uploader, c *cache.Client, logger *zap.Logger) *Handler {
	return &Handler{
		events:  eventstore.New(db),
		uploads: up,
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Handler) today() string {
	return storeutil.ISODate(h.now())
}

func upcomingKey(today string) string {
	return cache.KeyUpcomingEvents + ":" + today
}

// invalidate drops the cached event lists after a write.
func (h *Handler) invalidate(ctx context.Context) {
	h.cache.Delete(ctx, cache.KeyHomeEvents, upcomingKey(h.today()))
}
