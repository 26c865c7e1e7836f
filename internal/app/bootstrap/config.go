// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATACLUB"

// devJWTSecret is accepted only outside production.
const devJWTSecret = "dev-only-jwt-secret-change-me-0123456789"

// minJWTSecretLen is the shortest secret accepted in production.
const minJWTSecretLen = 32

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: STRATACLUB_MONGO_URI, STRATACLUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "strataclub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 token signing secret (32+ chars in production)"},
	{Name: "jwt_expiry", Default: "24h", Desc: "Token lifetime (e.g., 24h, 30m)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StrataClub", Desc: "From display name"},

	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Frontend origin for reset links and checkout redirects"},
	{Name: "timeout_ping", Default: "2s", Desc: "Health check ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Single-document database timeout"},
	{Name: "timeout_medium", Default: "10s", Desc: "List query and upload timeout"},
	{Name: "timeout_long", Default: "30s", Desc: "Aggregation and external call timeout"},
	{Name: "api_allowed_origins", Default: "", Desc: "Comma-separated browser origins allowed to call /api (empty allows any)"},

	// Account policy
	{Name: "account_expiry", Default: "8760h", Desc: "Expiry stamped on new accounts (0 disables)"},
	{Name: "email_verify_expiry", Default: "10m", Desc: "Sign-up verification code expiry (e.g., 10m, 1h)"},

	// Rate limiting configuration
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable lockout after repeated failed logins"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	// Redis cache
	{Name: "redis_addr", Default: "", Desc: "Redis address host:port (empty disables the cache)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "cache_ttl", Default: "5m", Desc: "TTL for cached club and event reads"},

	// Stripe
	{Name: "stripe_secret_key", Default: "", Desc: "Stripe secret key (empty disables checkout)"},
	{Name: "stripe_currency", Default: "hkd", Desc: "Checkout currency code"},

	// Chat relay
	{Name: "chat_endpoint", Default: "", Desc: "Chat completions base URL (empty disables chat)"},
	{Name: "chat_api_key", Default: "", Desc: "Chat relay API key"},
	{Name: "chat_model", Default: "", Desc: "Chat model deployment name"},
	{Name: "chat_api_version", Default: "2024-02-01", Desc: "Chat API version query parameter"},
	{Name: "chat_timeout", Default: "60s", Desc: "Chat relay request timeout"},

	{Name: "notification_retention", Default: "2160h", Desc: "How long expired notifications are kept before purge"},

	{Name: "api_stats_bucket", Default: "1h", Desc: "Bucket size for per-route API stats"},
	{Name: "api_stats_retention", Default: "2160h", Desc: "How long API stats buckets are kept"},

	// Audit logging: "all" (MongoDB and log), "db", "log", or "off"
	{Name: "audit_log_auth", Default: "all", Desc: "Audit destination for login, registration, and password events"},
	{Name: "audit_log_admin", Default: "all", Desc: "Audit destination for admin edits and deletes of members"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin user to ensure on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Password for a newly created seed admin"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of a newly created seed admin"},
	{Name: "seed_admin_student_id", Default: "", Desc: "Student ID of a newly created seed admin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults, as merged by
// config.LoadWithAppConfig.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", 24*time.Hour),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		FrontendURL:       appValues.String("frontend_url"),
		APIAllowedOrigins: splitList(appValues.String("api_allowed_origins")),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		AccountExpiry:     appValues.Duration("account_expiry", 365*24*time.Hour),
		EmailVerifyExpiry: appValues.Duration("email_verify_expiry", 10*time.Minute),

		// Rate limiting
		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		// Redis
		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		CacheTTL:      appValues.Duration("cache_ttl", 5*time.Minute),

		// Stripe
		StripeSecretKey: appValues.String("stripe_secret_key"),
		StripeCurrency:  appValues.String("stripe_currency"),

		// Chat relay
		ChatEndpoint:   appValues.String("chat_endpoint"),
		ChatAPIKey:     appValues.String("chat_api_key"),
		ChatModel:      appValues.String("chat_model"),
		ChatAPIVersion: appValues.String("chat_api_version"),
		ChatTimeout:    appValues.Duration("chat_timeout", 60*time.Second),

		NotificationRetention: appValues.Duration("notification_retention", 90*24*time.Hour),

		APIStatsBucket:    appValues.Duration("api_stats_bucket", time.Hour),
		APIStatsRetention: appValues.Duration("api_stats_retention", 90*24*time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		// Admin seeding
		SeedAdminEmail:     appValues.String("seed_admin_email"),
		SeedAdminPassword:  appValues.String("seed_admin_password"),
		SeedAdminName:      appValues.String("seed_admin_name"),
		SeedAdminStudentID: appValues.String("seed_admin_student_id"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < minJWTSecretLen {
			return fmt.Errorf("jwt_secret must be set to at least %d characters in production", minJWTSecretLen)
		}
	}
	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}

	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "", "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	switch appCfg.StorageType {
	case "local", "", "s3":
	default:
		return fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}

	return nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
