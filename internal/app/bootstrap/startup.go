// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/resources"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/store/audit"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/aitext"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auditlog"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/mailer"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/nudge"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/ratelimit"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/tasks"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Services are the long-lived collaborators shared by handlers and the
// background scanner.
type Services struct {
	AI           *aitext.Client
	Coach        *coach.Coach
	Scanner      *nudge.Scanner
	Audit        *auditlog.Logger
	AILimiter    *ratelimit.AILimiter
	LoginLimiter *ratelimit.LoginLimiter
	Runner       *workers.Runner
}

// services is populated by Startup and read by BuildHandler and Shutdown.
var services *Services

// NewScanner builds the inactivity scanner over the app database. The
// mailer is attached only when nudge_email is on.
func NewScanner(appCfg AppConfig, deps DBDeps, ai aitext.Completer, logger *zap.Logger) *nudge.Scanner {
	sc := nudge.New(nudge.NewMongoStore(deps.MongoDatabase, logger), ai, nudge.Config{
		Window:       appCfg.NudgeWindow,
		Concurrency:  appCfg.NudgeConcurrency,
		DedupeWindow: appCfg.NudgeDedupeWindow,
	}, logger)
	if appCfg.NudgeEmail {
		sc.SetMailer(mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Password: appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			SiteName: appCfg.MailFromName,
		}, logger))
	}
	return sc
}

// NewAIClient builds the AI text client from config.
func NewAIClient(appCfg AppConfig, logger *zap.Logger) *aitext.Client {
	return aitext.New(aitext.Config{
		APIKey:      appCfg.AIAPIKey,
		BaseURL:     appCfg.AIBaseURL,
		Model:       appCfg.AIModel,
		MaxTokens:   appCfg.AIMaxTokens,
		Temperature: appCfg.AITemperature,
		Timeout:     appCfg.AITimeout,
	}, logger)
}

// NewScanRunner wraps sc in a scheduled runner. Each cycle is bounded by
// the scan timeout.
func NewScanRunner(appCfg AppConfig, sc *nudge.Scanner, logger *zap.Logger) (*workers.Runner, error) {
	job := tasks.NudgeScanJob(sc, logger, appCfg.NudgeInterval, appCfg.NudgeSchedule)
	return workers.NewRunner(job, timeouts.Scan(), logger)
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// registers shared templates, builds the AI client, coach and scanner, and
// starts the scheduled scan when nudge_enabled is set.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{AI: appCfg.AITimeout + 5*time.Second})

	svc := &Services{
		AI:           NewAIClient(appCfg, logger),
		AILimiter:    ratelimit.NewAILimiter(appCfg.AIRateLimit),
		LoginLimiter: ratelimit.NewLoginLimiter(),
	}
	svc.Coach = coach.New(svc.AI, svc.AILimiter, logger)
	svc.Scanner = NewScanner(appCfg, deps, svc.AI, logger)
	svc.Audit = auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	if appCfg.NudgeEnabled {
		runner, err := NewScanRunner(appCfg, svc.Scanner, logger)
		if err != nil {
			return err
		}
		// The runner outlives Startup's ctx; Shutdown stops it.
		runner.Start(context.Background())
		svc.Runner = runner
	} else {
		logger.Info("inactivity scanner disabled in web process")
	}

	services = svc
	return nil
}
