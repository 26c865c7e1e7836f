// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/strataclub/internal/app/system/cache"
	"github.com/dalemusser/strataclub/internal/app/system/chatrelay"
	"github.com/dalemusser/strataclub/internal/app/system/checkout"
	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler, and Shutdown. Shutdown closes what needs closing.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// FileStorage for uploaded images and generated QR codes
	FileStorage storage.Store

	// Mailer for verification codes, reset links, and registration confirmations
	Mailer *mailer.Mailer

	// Cache is nil when redis_addr is empty.
	Cache *cache.Client

	// Checkout creates Stripe sessions. Calls fail when no key is configured.
	Checkout *checkout.Stripe

	// Chat is nil when chat_endpoint is empty.
	Chat *chatrelay.Client
}
