// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/store/audit"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config selects where each category is recorded.
type Config struct {
	Auth  string // sign-in, sign-up, sign-out
	Admin string // organization and team changes, manual scans
}

// ValidMode reports whether m is one of the accepted destinations.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Logger records audit events to MongoDB and zap.
// A nil *Logger is valid and records nothing.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("org_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the mode of its category. Storage
// failures are logged and never returned.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	var mode string
	switch event.Category {
	case audit.CategoryAuth:
		mode = l.config.Auth
	case audit.CategoryAdmin:
		mode = l.config.Admin
	}
	if mode == "" {
		mode = ModeAll
	}
	if mode == ModeOff {
		return
	}

	if mode == ModeAll || mode == ModeLog {
		l.logToZap(event)
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func authEvent(r *http.Request, eventType string, userID, orgID primitive.ObjectID, success bool) audit.Event {
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
	if !userID.IsZero() {
		e.UserID = &userID
	}
	if !orgID.IsZero() {
		e.OrganizationID = &orgID
	}
	return e
}

func adminEvent(r *http.Request, eventType string, actorID, orgID primitive.ObjectID, details map[string]string) audit.Event {
	e := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	}
	if !actorID.IsZero() {
		e.ActorID = &actorID
	}
	if !orgID.IsZero() {
		e.OrganizationID = &orgID
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a sign-in to an existing account.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID) {
	l.Log(ctx, authEvent(r, audit.EventLoginSuccess, userID, orgID, true))
}

// SignUp logs the creation of an account at sign-in.
func (l *Logger) SignUp(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID, isAdmin bool) {
	e := authEvent(r, audit.EventSignUp, userID, orgID, true)
	e.Details = map[string]string{"is_admin": strconv.FormatBool(isAdmin)}
	l.Log(ctx, e)
}

// LoginRateLimited logs a sign-in refused by the login limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := authEvent(r, audit.EventLoginFailedRateLimit, primitive.NilObjectID, primitive.NilObjectID, false)
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID) {
	l.Log(ctx, authEvent(r, audit.EventLogout, userID, orgID, true))
}

// --- Admin Events ---

// OrgCreated logs the creation of an organization.
func (l *Logger) OrgCreated(ctx context.Context, r *http.Request, actorID, orgID primitive.ObjectID, name string) {
	l.Log(ctx, adminEvent(r, audit.EventOrgCreated, actorID, orgID, map[string]string{"name": name}))
}

// OrgRenamed logs an organization rename.
func (l *Logger) OrgRenamed(ctx context.Context, r *http.Request, actorID, orgID primitive.ObjectID, name string) {
	l.Log(ctx, adminEvent(r, audit.EventOrgRenamed, actorID, orgID, map[string]string{"name": name}))
}

// TeamCreated logs a new team.
func (l *Logger) TeamCreated(ctx context.Context, r *http.Request, actorID, orgID, teamID primitive.ObjectID, name string) {
	l.Log(ctx, adminEvent(r, audit.EventTeamCreated, actorID, orgID, map[string]string{"team_id": teamID.Hex(), "name": name}))
}

// TeamRenamed logs a team rename.
func (l *Logger) TeamRenamed(ctx context.Context, r *http.Request, actorID, orgID, teamID primitive.ObjectID, name string) {
	l.Log(ctx, adminEvent(r, audit.EventTeamRenamed, actorID, orgID, map[string]string{"team_id": teamID.Hex(), "name": name}))
}

// TeamDeleted logs a team deletion.
func (l *Logger) TeamDeleted(ctx context.Context, r *http.Request, actorID, orgID, teamID primitive.ObjectID) {
	l.Log(ctx, adminEvent(r, audit.EventTeamDeleted, actorID, orgID, map[string]string{"team_id": teamID.Hex()}))
}

// ScanRun logs a manual inactivity scan with its counts.
func (l *Logger) ScanRun(ctx context.Context, r *http.Request, actorID primitive.ObjectID, runID string, nudged, failedOrgs int) {
	l.Log(ctx, adminEvent(r, audit.EventScanRun, actorID, primitive.NilObjectID, map[string]string{
		"run_id":      runID,
		"nudged":      strconv.Itoa(nudged),
		"failed_orgs": strconv.Itoa(failedOrgs),
	}))
}
