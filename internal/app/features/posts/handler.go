// Package posts serves the member social feed: posts with up to three
// images, likes, and embedded comments.
package posts

import (
	poststore "github.com/dalemusser/strataclub/internal/app/store/posts"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const imagePrefix = "posts"

// Handler serves the post endpoints.
type Handler struct {
	posts   *poststore.Store
	uploads *uploads.Uploader
	logger  *zap.Logger
}

// NewHandler creates a posts Handler.
func NewHandler(db *mongo.Database, up *uploads.Uploader, logger *zap.Logger) *Handler {
	return &Handler{
		posts:   poststore.New(db),
		uploads: up,
		logger:  logger,
	}
}
