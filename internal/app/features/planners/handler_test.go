package planners_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/features/planners"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type recordingAI struct {
	calls  int32
	system string
	user   string
}

func (a *recordingAI) Complete(_ context.Context, system, user string) (string, error) {
	atomic.AddInt32(&a.calls, 1)
	a.system, a.user = system, user
	return "Plan.", nil
}

func setup(t *testing.T, ai *recordingAI) (chi.Router, models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", false)

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "t", "", time.Hour, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	h := planners.NewHandler(db, coach.New(ai, nil, logger), uierrors.NewErrorLogger(logger), logger)
	return planners.Routes(h, sm), u
}

func post(router http.Handler, u models.User, path string, form url.Values) {
	req := testutil.WithUser(testutil.NewFormRequest(path, form), testutil.TestUser{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Role:           "member",
		OrganizationID: u.OrganizationID.Hex(),
	})
	func() {
		defer func() { _ = recover() }() // templates are not booted in tests
		router.ServeHTTP(httptest.NewRecorder(), req)
	}()
}

func TestWorkout_DurationOutOfRangeSkipsAI(t *testing.T) {
	ai := &recordingAI{}
	router, u := setup(t, ai)

	post(router, u, "/workout", url.Values{
		"fitness_level": {"Beginner"},
		"goal":          {"Strength"},
		"duration_min":  {"5"},
		"days_per_week": {"3"},
		"request":       {"full body"},
	})
	if n := atomic.LoadInt32(&ai.calls); n != 0 {
		t.Errorf("AI calls = %d, want 0", n)
	}
}

func TestWorkout_BuildsPrompt(t *testing.T) {
	ai := &recordingAI{}
	router, u := setup(t, ai)

	post(router, u, "/workout", url.Values{
		"fitness_level": {"Intermediate"},
		"goal":          {"Endurance"},
		"equipment":     {"Dumbbells", "Rocket"},
		"duration_min":  {"60"},
		"days_per_week": {"4"},
		"request":       {"upper/lower split"},
	})
	if n := atomic.LoadInt32(&ai.calls); n != 1 {
		t.Fatalf("AI calls = %d, want 1", n)
	}
	if ai.user != "upper/lower split" {
		t.Errorf("user prompt = %q", ai.user)
	}
	for _, want := range []string{"Intermediate", "Available Equipment: Dumbbells\n", "60 minutes", "Days Per Week: 4"} {
		if !strings.Contains(ai.system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestDiet_EmptyRequestSkipsAI(t *testing.T) {
	ai := &recordingAI{}
	router, u := setup(t, ai)

	post(router, u, "/diet/meal-plan", url.Values{"diet_goal": {"Lose Weight"}})
	post(router, u, "/diet/recipe", url.Values{"ingredients": {"  "}})
	if n := atomic.LoadInt32(&ai.calls); n != 0 {
		t.Errorf("AI calls = %d, want 0", n)
	}
}

func TestDiet_SwapsPrompt(t *testing.T) {
	ai := &recordingAI{}
	router, u := setup(t, ai)

	post(router, u, "/diet/swaps", url.Values{
		"swap_item":   {"white pasta"},
		"preferences": {"Vegan"},
		"allergies":   {"Peanuts"},
	})
	if n := atomic.LoadInt32(&ai.calls); n != 1 {
		t.Fatalf("AI calls = %d, want 1", n)
	}
	for _, want := range []string{"white pasta", "Improve health", "Vegan", "Peanuts"} {
		if !strings.Contains(ai.system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}
