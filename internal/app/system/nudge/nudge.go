// Package nudge finds users who have not worked out recently and writes an
// AI coaching message to their notifications.
package nudge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/aitext"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWindow is how far back a workout counts as recent.
const DefaultWindow = 72 * time.Hour

// ErrScanRunning is returned by Run while another Run is in progress.
var ErrScanRunning = errors.New("inactivity scan already running")

// Store is everything the scanner reads and writes.
type Store interface {
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	ListUsers(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error)
	GetUser(ctx context.Context, orgID, uid primitive.ObjectID) (models.User, error)
	GetDailyLogs(ctx context.Context, orgID, uid primitive.ObjectID) ([]models.DailyLog, error)
	// SaveNotification inserts one unread notification and reports success.
	SaveNotification(ctx context.Context, n models.Notification) bool
	HasUnreadSince(ctx context.Context, orgID, uid primitive.ObjectID, since time.Time) (bool, error)
}

// Mailer optionally delivers a copy of a nudge by e-mail.
type Mailer interface {
	SendNudge(ctx context.Context, u models.User, message string) error
}

// Config tunes a Scanner. Zero values select the defaults.
type Config struct {
	Window       time.Duration // default 72h
	Concurrency  int           // organizations processed at once; default 1
	DedupeWindow time.Duration // 0 disables deduplication
}

// Summary counts what one Run did.
type Summary struct {
	RunID      string
	Orgs       int
	Users      int
	Nudged     int
	Skipped    int // active, deduplicated, or without an id
	FailedOrgs int
}

// Scanner runs at most one scan at a time; CheckUser may be called
// concurrently with Run.
type Scanner struct {
	running atomic.Bool

	store  Store
	ai     aitext.Completer
	mail   Mailer
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
	newRun func() string
}

// New builds a scanner.
func New(store Store, ai aitext.Completer, cfg Config, logger *zap.Logger) *Scanner {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Scanner{
		store:  store,
		ai:     ai,
		cfg:    cfg,
		log:    logger,
		now:    time.Now,
		newRun: func() string { return uuid.NewString() },
	}
}

// SetMailer enables e-mail copies of each nudge.
func (s *Scanner) SetMailer(m Mailer) { s.mail = m }

// SetClock replaces time.Now; tests use it to pin the threshold.
func (s *Scanner) SetClock(now func() time.Time) { s.now = now }

// IsActive reports whether any log after threshold has a workout.
func IsActive(logs []models.DailyLog, threshold time.Time) bool {
	threshold = threshold.UTC()
	for _, l := range logs {
		if l.LoggedAt.UTC().After(threshold) && l.WorkoutDurationMin > 0 {
			return true
		}
	}
	return false
}

type counters struct {
	mu sync.Mutex
	Summary
}

func (c *counters) add(f func(*Summary)) {
	c.mu.Lock()
	f(&c.Summary)
	c.mu.Unlock()
}

// Run performs one full scan. A failure inside one organization is logged
// and counted; the scan continues with the next organization. The returned
// error is non-nil only when organizations cannot be listed at all, when
// ctx ends, or when a scan is already running (ErrScanRunning).
func (s *Scanner) Run(ctx context.Context) (Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Summary{}, ErrScanRunning
	}
	defer s.running.Store(false)

	runID := s.newRun()
	log := s.log.With(zap.String("run_id", runID))
	started := s.now()
	threshold := started.UTC().Add(-s.cfg.Window)

	log.Info("inactivity scan started",
		zap.Time("threshold", threshold),
		zap.Int("concurrency", s.cfg.Concurrency))

	orgs, err := s.store.ListOrganizations(ctx)
	if err != nil {
		log.Error("list organizations failed", zap.Error(err))
		return Summary{RunID: runID}, fmt.Errorf("list organizations: %w", err)
	}
	if len(orgs) == 0 {
		log.Info("no organizations found")
		return Summary{RunID: runID}, nil
	}

	c := &counters{Summary: Summary{RunID: runID, Orgs: len(orgs)}}

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for _, org := range orgs {
		org := org
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := s.scanOrg(ctx, log, runID, org, threshold, c); err != nil {
				c.add(func(sm *Summary) { sm.FailedOrgs++ })
				log.Error("failed to process organization",
					zap.String("org_id", org.ID.Hex()),
					zap.String("org_name", org.Name),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	sum := c.Summary
	log.Info("inactivity scan finished",
		zap.Int("orgs", sum.Orgs),
		zap.Int("users", sum.Users),
		zap.Int("nudged", sum.Nudged),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed_orgs", sum.FailedOrgs),
		zap.Duration("took", s.now().Sub(started)))
	return sum, ctx.Err()
}

// scanOrg processes one organization. Any store error aborts the rest of
// the organization's users.
func (s *Scanner) scanOrg(ctx context.Context, log *zap.Logger, runID string, org models.Organization, threshold time.Time, c *counters) error {
	log = log.With(zap.String("org_id", org.ID.Hex()))
	log.Debug("checking organization", zap.String("org_name", org.Name))

	users, err := s.store.ListUsers(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.add(func(sm *Summary) { sm.Users++ })
		if u.ID.IsZero() {
			c.add(func(sm *Summary) { sm.Skipped++ })
			continue
		}

		logs, err := s.store.GetDailyLogs(ctx, org.ID, u.ID)
		if err != nil {
			return fmt.Errorf("daily logs for %s: %w", u.ID.Hex(), err)
		}
		if IsActive(logs, threshold) {
			log.Debug("user is active, no nudge needed", zap.String("user_id", u.ID.Hex()))
			c.add(func(sm *Summary) { sm.Skipped++ })
			continue
		}

		if s.recentlyNudged(ctx, log, org.ID, u.ID) {
			c.add(func(sm *Summary) { sm.Skipped++ })
			continue
		}

		log.Info("user is inactive, generating nudge", zap.String("user_id", u.ID.Hex()))
		p := prompts.ScanNudge(u.Name, u.FitnessGoal())
		if s.deliver(ctx, log, org.ID, u, p, models.NotificationSourceScan, runID) != "" {
			c.add(func(sm *Summary) { sm.Nudged++ })
		}
	}
	return nil
}

func (s *Scanner) recentlyNudged(ctx context.Context, log *zap.Logger, orgID, uid primitive.ObjectID) bool {
	if s.cfg.DedupeWindow <= 0 {
		return false
	}
	since := s.now().UTC().Add(-s.cfg.DedupeWindow)
	has, err := s.store.HasUnreadSince(ctx, orgID, uid, since)
	if err != nil {
		// Prefer a duplicate over a missed nudge.
		log.Warn("dedupe lookup failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		return false
	}
	if has {
		log.Debug("unread nudge already pending, skipping", zap.String("user_id", uid.Hex()))
	}
	return has
}

// deliver asks the model for a message, saves it and mails a copy.
// An AI failure still saves the placeholder text. Returns the saved
// message, or "" when the save failed.
func (s *Scanner) deliver(ctx context.Context, log *zap.Logger, orgID primitive.ObjectID, u models.User, p prompts.Pair, source, runID string) string {
	msg, err := s.ai.Complete(ctx, p.System, p.User)
	if err != nil {
		log.Warn("ai nudge failed, saving placeholder", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		msg = aitext.Fallback(err)
	} else if source == models.NotificationSourceManual {
		msg = prompts.CleanNudge(msg)
	}

	ok := s.store.SaveNotification(ctx, models.Notification{
		OrganizationID: orgID,
		UserID:         u.ID,
		Message:        msg,
		Source:         source,
		RunID:          runID,
	})
	if !ok {
		log.Error("saving notification failed", zap.String("user_id", u.ID.Hex()))
		return ""
	}
	log.Info("nudge saved", zap.String("user_id", u.ID.Hex()), zap.String("source", source))

	if s.mail != nil && u.Email != "" {
		if err := s.mail.SendNudge(ctx, u, msg); err != nil {
			log.Warn("nudge e-mail failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		}
	}
	return msg
}

// CheckResult is the outcome of a manual inactivity check.
type CheckResult struct {
	Inactive bool
	Message  string // the nudge written, when Inactive
	Saved    bool
}

// ErrUserNotFound is returned by CheckUser for an unknown user.
var ErrUserNotFound = errors.New("user not found")

// CheckUser applies the activity rule to one user and, when inactive,
// writes a manual nudge built from the canned "haven't worked out" feeling.
func (s *Scanner) CheckUser(ctx context.Context, orgID, uid primitive.ObjectID) (CheckResult, error) {
	log := s.log.With(zap.String("org_id", orgID.Hex()), zap.String("user_id", uid.Hex()))

	u, err := s.store.GetUser(ctx, orgID, uid)
	if err != nil {
		return CheckResult{}, err
	}
	logs, err := s.store.GetDailyLogs(ctx, orgID, uid)
	if err != nil {
		return CheckResult{}, fmt.Errorf("daily logs: %w", err)
	}
	if IsActive(logs, s.now().UTC().Add(-s.cfg.Window)) {
		return CheckResult{}, nil
	}

	p := prompts.ManualNudge(u.Name, u.FitnessGoal(), prompts.InactiveFeeling)
	msg := s.deliver(ctx, log, orgID, u, p, models.NotificationSourceManual, "")
	if msg == "" {
		return CheckResult{Inactive: true}, nil
	}
	return CheckResult{Inactive: true, Message: msg, Saved: true}, nil
}
