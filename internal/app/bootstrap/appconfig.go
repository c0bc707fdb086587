// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// Framework settings (ports, TLS, log level, CORS) live in WAFFLE's
// CoreConfig. Everything here is specific to Wellness Hub and is passed to
// each lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // signs session cookies and derives the CSRF key
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// AI text service (OpenAI-compatible endpoint, Groq by default)
	AIAPIKey      string // blank disables AI; pages show a placeholder
	AIBaseURL     string
	AIModel       string
	AIMaxTokens   int
	AITemperature float32
	AITimeout     time.Duration
	AIRateLimit   int // completions per user per hour; 0 disables the limit

	// Inactivity scanner
	NudgeEnabled      bool          // run the scheduler inside the web process
	NudgeInterval     time.Duration // used when NudgeSchedule is blank
	NudgeSchedule     string        // cron expression; overrides NudgeInterval
	NudgeWindow       time.Duration
	NudgeConcurrency  int
	NudgeDedupeWindow time.Duration // 0 disables deduplication
	NudgeEmail        bool          // also e-mail each nudge (requires SMTP)
	NudgeOnce         bool          // nudgeagent: run a single cycle and exit

	// Email/SMTP configuration
	MailSMTPHost string // blank disables e-mail
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Audit trail destinations: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Organization created on first start so the login page has a choice.
	SeedOrganization string
}
