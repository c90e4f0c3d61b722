// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to CampusHub lives: the Mongo
// connection, the token signing key for the API, database operation
// timeouts, and the bootstrap admin account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Bearer token configuration. Every API request after login carries
	// a token signed with TokenKey; TokenTTL bounds how long a login
	// session lasts before the client must authenticate again.
	TokenKey string        // Secret key for signing tokens (must be strong in production)
	TokenTTL time.Duration // Lifetime of issued tokens (default: 24h)

	// Database operation timeouts. Zero values keep the built-in
	// defaults; see the timeouts package for what each class covers.
	DBTimeoutPing   time.Duration // Health check pings
	DBTimeoutShort  time.Duration // Single-document reads
	DBTimeoutMedium time.Duration // List queries and simple writes
	DBTimeoutLong   time.Duration // Multi-collection writes (RSVPs, comments)

	// Audit logging mode for auth events: "all" (db+log), "db", "log",
	// or "off".
	AuditLog string

	// Admin bootstrap. When AdminEmail is set, Startup ensures an admin
	// account with that email exists, creating it with AdminPassword if
	// needed or promoting an existing account.
	AdminEmail    string
	AdminPassword string
}
