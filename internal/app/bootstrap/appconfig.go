// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for StrataClub.
//
// Values come from config files, STRATACLUB_* environment variables, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings: ports, TLS, logging, CORS, and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Bearer token configuration
	JWTSecret string        // HS256 signing secret (must be strong in production)
	JWTExpiry time.Duration // Token lifetime (default: 24h)

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/uploads")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Email/SMTP configuration
	MailSMTPHost string // e.g., localhost for Mailpit
	MailSMTPPort int    // e.g., 1025 for Mailpit, 587 for SES
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string // From email address
	MailFromName string // From display name, also the app name in email bodies

	// Per-request database timeouts; zero keeps the built-in default
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Origins allowed to call /api from a browser; empty allows any
	APIAllowedOrigins []string

	// FrontendURL is the browser app's origin, used in password reset links
	// and checkout redirect URLs.
	FrontendURL string

	// Account policy
	AccountExpiry     time.Duration // expiry stamped on new accounts; 0 disables
	EmailVerifyExpiry time.Duration // lifetime of sign-up verification codes

	// Rate limiting configuration
	RateLimitEnabled       bool
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitLoginLockout  time.Duration

	// Redis cache (empty address disables caching)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Stripe checkout
	StripeSecretKey string
	StripeCurrency  string

	// Chat relay
	ChatEndpoint   string
	ChatAPIKey     string
	ChatModel      string
	ChatAPIVersion string
	ChatTimeout    time.Duration

	// Notification retention after expiry
	NotificationRetention time.Duration

	// API usage stats
	APIStatsBucket    time.Duration
	APIStatsRetention time.Duration

	// Audit log destinations ("all", "db", "log", "off")
	AuditLogAuth  string
	AuditLogAdmin string

	// Admin seeding configuration
	SeedAdminEmail     string
	SeedAdminPassword  string
	SeedAdminName      string
	SeedAdminStudentID string
}
