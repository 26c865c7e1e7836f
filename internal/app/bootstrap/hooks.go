// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle.
// app.Run calls them in order, from configuration loading through DB setup,
// one-time startup work, HTTP handler construction, and graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "strataclub",   // used only for logging/diagnostics
	LoadConfig:     LoadConfig,     // load core + app config
	ValidateConfig: ValidateConfig, // Mongo URI, JWT secret, storage type
	ConnectDB:      ConnectDB,      // Mongo, storage, mail, cache, Stripe, chat
	EnsureSchema:   EnsureSchema,   // validators and indexes
	Startup:        Startup,        // seed admin, start background tasks
	BuildHandler:   BuildHandler,   // build the HTTP router + middleware stack
	Shutdown:       Shutdown,       // stop tasks, close cache, disconnect Mongo
}
