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
// AppConfig is where everything specific to MemberHub lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: memberhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@memberhub.org)
	MailFromName string // From display name

	// Site identity used in outbound email and responses
	SiteName string // Display name of the deployment (e.g., "MemberHub")
	BaseURL  string // Base URL for links in email (e.g., "https://memberhub.org")

	// Audit logging settings: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Login throttling
	LoginRateLimit  int           // attempts allowed per window, per login id
	LoginRateWindow time.Duration // window for the attempt counter

	// Throttling for the public write endpoints (signup, register,
	// apply, subscribe), keyed by client IP
	PublicRateLimit  int
	PublicRateWindow time.Duration

	// Initial admin bootstrap. When both are set, startup ensures an
	// admin credential with this login id exists.
	AdminLoginID string
	AdminSecret  string
}
