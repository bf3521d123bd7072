// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request body limits.
// AppConfig is where everything specific to this service lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections the driver keeps warm

	// Audit logging configuration
	AuditLogValidation string // Validation event logging: "all" (db+log), "db", "log", or "off"

	// Store call deadlines; zero values keep the built-in defaults.
	TimeoutShort  time.Duration // single-document reads
	TimeoutMedium time.Duration // list queries and simple writes
	TimeoutLong   time.Duration // decision recording, including conflict retries
}
