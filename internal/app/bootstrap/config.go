// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/aitext"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auditlog"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/nudge"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Wellness Hub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, ai_model, etc.
//   - Environment variables: WELLNESS_MONGO_URI, WELLNESS_AI_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --nudge_schedule, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "wellness_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "wellness-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "168h", Desc: "Session lifetime (e.g., 24h, 168h)"},

	// AI text service
	{Name: "ai_api_key", Default: "", Desc: "API key for the OpenAI-compatible endpoint (blank disables AI)"},
	{Name: "ai_base_url", Default: aitext.DefaultBaseURL, Desc: "Chat completions base URL"},
	{Name: "ai_model", Default: aitext.DefaultModel, Desc: "Model name"},
	{Name: "ai_max_tokens", Default: aitext.DefaultMaxTokens, Desc: "Max tokens per completion"},
	{Name: "ai_temperature", Default: strconv.FormatFloat(aitext.DefaultTemperature, 'f', -1, 64), Desc: "Sampling temperature (0-2, 0 is greedy)"},
	{Name: "ai_timeout", Default: "60s", Desc: "Timeout for one streaming completion"},
	{Name: "ai_rate_limit", Default: 30, Desc: "AI requests per user per hour (0 disables the limit)"},

	// Inactivity scanner
	{Name: "nudge_enabled", Default: false, Desc: "Run the inactivity scanner inside the web process (keep false when cmd/nudgeagent runs, or every user is nudged twice)"},
	{Name: "nudge_interval", Default: 3600, Desc: "Seconds between scans (ignored when nudge_schedule is set)"},
	{Name: "nudge_schedule", Default: "", Desc: "Cron expression for scans, e.g. '@hourly' or '0 * * * *'"},
	{Name: "nudge_window", Default: "72h", Desc: "Inactivity window"},
	{Name: "nudge_concurrency", Default: 1, Desc: "Organizations scanned at once"},
	{Name: "nudge_dedupe_window", Default: "0s", Desc: "Skip users with an unread nudge newer than this (0 disables)"},
	{Name: "nudge_email", Default: false, Desc: "Also e-mail each nudge (requires mail_smtp_host)"},
	{Name: "once", Default: false, Desc: "nudgeagent only: run a single scan and exit"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables e-mail)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@wellnesshub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Wellness Hub", Desc: "From display name"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "seed_organization", Default: "Default Organization", Desc: "Organization created when none exist (blank skips)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// WELLNESS_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WELLNESS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	temp, err := strconv.ParseFloat(strings.TrimSpace(appValues.String("ai_temperature")), 32)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("ai_temperature: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 7*24*time.Hour),

		AIAPIKey:      appValues.String("ai_api_key"),
		AIBaseURL:     appValues.String("ai_base_url"),
		AIModel:       appValues.String("ai_model"),
		AIMaxTokens:   appValues.Int("ai_max_tokens"),
		AITemperature: float32(temp),
		AITimeout:     appValues.Duration("ai_timeout", aitext.DefaultTimeout),
		AIRateLimit:   appValues.Int("ai_rate_limit"),

		NudgeEnabled:      appValues.Bool("nudge_enabled"),
		NudgeInterval:     time.Duration(appValues.Int("nudge_interval")) * time.Second,
		NudgeSchedule:     strings.TrimSpace(appValues.String("nudge_schedule")),
		NudgeWindow:       appValues.Duration("nudge_window", nudge.DefaultWindow),
		NudgeConcurrency:  appValues.Int("nudge_concurrency"),
		NudgeDedupeWindow: appValues.Duration("nudge_dedupe_window", 0),
		NudgeEmail:        appValues.Bool("nudge_email"),
		NudgeOnce:         appValues.Bool("once"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		AuditLogAuth:  strings.ToLower(strings.TrimSpace(appValues.String("audit_log_auth"))),
		AuditLogAdmin: strings.ToLower(strings.TrimSpace(appValues.String("audit_log_admin"))),

		SeedOrganization: strings.TrimSpace(appValues.String("seed_organization")),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It checks the MongoDB URI, numeric ranges and the scan schedule so that
// misconfiguration aborts startup instead of surfacing at the first scan.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoMaxPoolSize > 0 && appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if strings.TrimSpace(appCfg.SessionKey) == "" {
		return fmt.Errorf("session_key must be set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key still has the development default")
	}

	if appCfg.AIMaxTokens <= 0 {
		return fmt.Errorf("ai_max_tokens must be positive, got %d", appCfg.AIMaxTokens)
	}
	if appCfg.AITemperature < 0 || appCfg.AITemperature > 2 {
		return fmt.Errorf("ai_temperature must be within 0-2, got %g", appCfg.AITemperature)
	}
	if appCfg.AIRateLimit < 0 {
		return fmt.Errorf("ai_rate_limit must not be negative")
	}
	if appCfg.AIAPIKey == "" {
		logger.Warn("ai_api_key not set; AI features will return a placeholder")
	}

	if appCfg.NudgeWindow <= 0 {
		return fmt.Errorf("nudge_window must be positive")
	}
	if appCfg.NudgeConcurrency < 1 {
		return fmt.Errorf("nudge_concurrency must be at least 1, got %d", appCfg.NudgeConcurrency)
	}
	if appCfg.NudgeDedupeWindow < 0 {
		return fmt.Errorf("nudge_dedupe_window must not be negative")
	}
	if _, err := workers.ParseSchedule(appCfg.NudgeSchedule, appCfg.NudgeInterval); err != nil {
		return fmt.Errorf("nudge schedule: %w", err)
	}
	if !auditlog.ValidMode(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth must be all, db, log or off, got %q", appCfg.AuditLogAuth)
	}
	if !auditlog.ValidMode(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_admin must be all, db, log or off, got %q", appCfg.AuditLogAdmin)
	}
	if appCfg.NudgeEmail && appCfg.MailSMTPHost == "" {
		return fmt.Errorf("nudge_email requires mail_smtp_host")
	}
	return nil
}
