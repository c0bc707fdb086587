package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/features/dashboard"
	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	notificationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/notifications"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/coach"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type countingAI struct{ calls int32 }

func (c *countingAI) Complete(context.Context, string, string) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return "Keep going.", nil
}

func newTestHandler(t *testing.T, ai *countingAI) (*dashboard.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := dashboard.NewHandler(db, coach.New(ai, nil, logger), uierrors.NewErrorLogger(logger), logger)
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

func as(req *http.Request, u models.User) *http.Request {
	return testutil.WithUser(req, testutil.TestUser{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Role:           "member",
		OrganizationID: u.OrganizationID.Hex(),
	})
}

func TestHandleDismiss_MarksRead(t *testing.T) {
	h, fx, db := newTestHandler(t, &countingAI{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", false)
	notes := notificationstore.New(db)
	n, err := notes.Create(ctx, models.Notification{
		OrganizationID: org.ID,
		UserID:         u.ID,
		Message:        "Move!",
		Timestamp:      time.Now(),
		Source:         models.NotificationSourceScan,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := testutil.WithChiURLParam(as(testutil.NewFormRequest("/dashboard/notifications/x/read", nil), u), "id", n.ID.Hex())
	rec := serve(h.HandleDismiss, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("got %d %q, want 303 /dashboard", rec.Code, rec.Header().Get("Location"))
	}
	unread, _ := notes.ListUnread(ctx, org.ID, u.ID)
	if len(unread) != 0 {
		t.Errorf("unread = %d, want 0", len(unread))
	}
}

func TestHandleDismiss_OtherUsersNotification(t *testing.T) {
	h, fx, db := newTestHandler(t, &countingAI{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	ann := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", false)
	bob := fx.CreateUser(ctx, org.ID, "Bob", "bob@example.com", false)
	notes := notificationstore.New(db)
	n, _ := notes.Create(ctx, models.Notification{OrganizationID: org.ID, UserID: bob.ID, Message: "Hi", Timestamp: time.Now()})

	req := testutil.WithChiURLParam(as(testutil.NewFormRequest("/dashboard/notifications/x/read", nil), ann), "id", n.ID.Hex())
	rec := serve(h.HandleDismiss, req)

	if rec.Code == http.StatusSeeOther {
		t.Error("dismissed another user's notification")
	}
	unread, _ := notes.ListUnread(ctx, org.ID, bob.ID)
	if len(unread) != 1 {
		t.Errorf("bob unread = %d, want 1", len(unread))
	}
}

func TestHandleDismiss_BadID(t *testing.T) {
	h, fx, _ := newTestHandler(t, &countingAI{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", false)

	req := testutil.WithChiURLParam(as(testutil.NewFormRequest("/dashboard/notifications/x/read", nil), u), "id", "nope")
	rec := serve(h.HandleDismiss, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAnalysis_NoLogsSkipsAI(t *testing.T) {
	ai := &countingAI{}
	h, fx, _ := newTestHandler(t, ai)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", false)

	serve(h.HandleAnalysis, as(testutil.NewFormRequest("/dashboard/analysis", nil), u))
	if n := atomic.LoadInt32(&ai.calls); n != 0 {
		t.Errorf("AI calls = %d, want 0", n)
	}
}

func TestHandleAnalysis_WithLogsCallsAI(t *testing.T) {
	ai := &countingAI{}
	h, fx, _ := newTestHandler(t, ai)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	u := fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", false)
	fx.CreateDailyLog(ctx, org.ID, u.ID, time.Now(), 30)

	serve(h.HandleAnalysis, as(testutil.NewFormRequest("/dashboard/analysis", nil), u))
	if n := atomic.LoadInt32(&ai.calls); n != 1 {
		t.Errorf("AI calls = %d, want 1", n)
	}
}

func TestServeDashboard_NotSignedIn(t *testing.T) {
	h, _, _ := newTestHandler(t, &countingAI{})
	rec := serve(h.ServeDashboard, httptest.NewRequest("GET", "/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
