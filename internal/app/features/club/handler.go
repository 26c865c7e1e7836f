// Package club serves the club profile: the single document behind the
// public home and about pages, with its posters and branding images.
package club

import (
	clubstore "github.com/dalemusser/strataclub/internal/app/store/clubs"
	"github.com/dalemusser/strataclub/internal/app/system/cache"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const imagePrefix = "clubs"

// Handler serves the club endpoints.
type Handler struct {
	clubs   *clubstore.Store
	uploads *uploads.Uploader
	cache   *cache.Client // nil disables caching
	logger  *zap.Logger
}

// NewHandler creates a club Handler.
func NewHandler(db *mongo.Database, up *uploads.Uploader, c *cache.Client, logger *zap.Logger) *Handler {
	return &Handler{
		clubs:   clubstore.New(db),
		uploads: up,
		cache:   c,
		logger:  logger,
	}
}
