// Package coach is the page-facing side of the language model: it applies
// the per-user rate limit and the AI timeout, and returns sanitized HTML.
package coach

import (
	"context"
	"errors"
	"html/template"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/aitext"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/healthcalc"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/htmlsanitize"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/prompts"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/ratelimit"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"go.uber.org/zap"
)

// ErrRateLimited is returned when the user has used up the hourly quota.
var ErrRateLimited = errors.New("ai request limit reached")

// RateLimitedText is shown in place of an answer when ErrRateLimited.
const RateLimitedText = "You've reached the hourly limit for AI requests. Please try again later."

type Coach struct {
	ai    aitext.Completer
	limit *ratelimit.AILimiter
	log   *zap.Logger
}

// New builds a coach. limit may be nil.
func New(ai aitext.Completer, limit *ratelimit.AILimiter, logger *zap.Logger) *Coach {
	return &Coach{ai: ai, limit: limit, log: logger}
}

// Text asks the model and returns the raw answer, or the placeholder text
// on failure. Only ErrRateLimited is returned as an error.
func (c *Coach) Text(ctx context.Context, userID string, p prompts.Pair) (string, error) {
	if !c.limit.Allow(userID) {
		return RateLimitedText, ErrRateLimited
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.AI())
	defer cancel()

	text, err := c.ai.Complete(ctx, p.System, p.User)
	if err != nil {
		if !errors.Is(err, aitext.ErrUnavailable) {
			c.log.Warn("ai completion failed", zap.String("user_id", userID), zap.Error(err))
		}
		return aitext.Fallback(err), nil
	}
	return text, nil
}

// HTML is Text rendered for display.
func (c *Coach) HTML(ctx context.Context, userID string, p prompts.Pair) (template.HTML, error) {
	text, err := c.Text(ctx, userID, p)
	return htmlsanitize.PrepareForDisplay(text), err
}

// ProfileFor derives the prompt profile from a stored user, filling in the
// default body metrics when none were saved.
func ProfileFor(u models.User) prompts.Profile {
	m := u.Metrics()
	bmr := healthcalc.BMR(m.WeightKg, m.HeightCm, m.Age, m.Gender)
	return prompts.Profile{
		Name:    u.Name,
		Metrics: m,
		BMI:     healthcalc.BMI(m.WeightKg, m.HeightCm),
		BMR:     bmr,
		TDEE:    healthcalc.TDEE(bmr, m.ActivityLevel),
	}
}
