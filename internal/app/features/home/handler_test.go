package home_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/features/home"
	notificationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/notifications"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/nudge"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type countingAI struct {
	calls int32
	reply string
}

func (c *countingAI) Complete(context.Context, string, string) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.reply, nil
}

func newTestHandler(t *testing.T, ai *countingAI) (*home.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sc := nudge.New(nudge.NewMongoStore(db, logger), ai, nudge.Config{}, logger)
	h := home.NewHandler(db, coach.New(ai, nil, logger), sc, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db), db
}

func serve(fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }() // templates are not booted in tests
		fn(rec, req)
	}()
	return rec
}

func signedIn(req *http.Request, orgID string, u models.User) *http.Request {
	return testutil.WithUser(req, testutil.TestUser{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Email:          u.Email,
		Role:           "member",
		OrganizationID: orgID,
	})
}

func TestServeRoot_Redirects(t *testing.T) {
	h, _, _ := newTestHandler(t, &countingAI{})

	rec := serve(h.ServeRoot, httptest.NewRequest("GET", "/", nil))
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("visitor Location = %q, want /login", loc)
	}

	u := models.User{ID: primitive.NewObjectID(), Name: "Ann"}
	rec = serve(h.ServeRoot, signedIn(httptest.NewRequest("GET", "/", nil), "507f1f77bcf86cd799439011", u))
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Errorf("member Location = %q, want /home", loc)
	}
}

func TestHandleNudge_EmptyInputSkipsAI(t *testing.T) {
	ai := &countingAI{reply: "x"}
	h, fx, _ := newTestHandler(t, ai)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", true)

	req := signedIn(testutil.NewFormRequest("/home/nudge", url.Values{"feeling": {"   "}}), org.ID.Hex(), u)
	serve(h.HandleNudge, req)

	if n := atomic.LoadInt32(&ai.calls); n != 0 {
		t.Errorf("AI called %d times for empty input", n)
	}
}

func TestHandleNudge_CallsAIWithoutSaving(t *testing.T) {
	ai := &countingAI{reply: "Take a walk, Ann."}
	h, fx, db := newTestHandler(t, ai)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", true)

	req := signedIn(testutil.NewFormRequest("/home/nudge", url.Values{"feeling": {"tired"}}), org.ID.Hex(), u)
	serve(h.HandleNudge, req)

	if n := atomic.LoadInt32(&ai.calls); n != 1 {
		t.Errorf("AI calls = %d, want 1", n)
	}
	notes, _ := notificationstore.New(db).ListUnread(ctx, org.ID, u.ID)
	if len(notes) != 0 {
		t.Errorf("manual nudge form saved %d notifications", len(notes))
	}
}

func TestHandleCheck_InactiveSavesManualNotification(t *testing.T) {
	ai := &countingAI{reply: "Ten squats now, Bob."}
	h, fx, db := newTestHandler(t, ai)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Bob", "bob@example.com", false)
	fx.CreateDailyLog(ctx, org.ID, u.ID, time.Now().AddDate(0, 0, -10), 60)

	serve(h.HandleCheck, signedIn(testutil.NewFormRequest("/home/check", nil), org.ID.Hex(), u))

	notes, err := notificationstore.New(db).ListUnread(ctx, org.ID, u.ID)
	if err != nil {
		t.Fatalf("ListUnread: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}
	if notes[0].Source != models.NotificationSourceManual || notes[0].Message != "Ten squats now, Bob." {
		t.Errorf("notification = %+v", notes[0])
	}
}

func TestHandleCheck_ActiveSavesNothing(t *testing.T) {
	ai := &countingAI{reply: "x"}
	h, fx, db := newTestHandler(t, ai)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", true)
	fx.CreateDailyLog(ctx, org.ID, u.ID, time.Now(), 30)

	serve(h.HandleCheck, signedIn(testutil.NewFormRequest("/home/check", nil), org.ID.Hex(), u))

	if n := atomic.LoadInt32(&ai.calls); n != 0 {
		t.Errorf("AI called for active user")
	}
	notes, _ := notificationstore.New(db).ListUnread(ctx, org.ID, u.ID)
	if len(notes) != 0 {
		t.Errorf("notifications = %d, want 0", len(notes))
	}
}
