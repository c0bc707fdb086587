package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/features/login"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/store/audit"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auditlog"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := login.NewHandler(db, sessionMgr, errLog, nil, nil, logger)
	return handler, testutil.NewFixtures(t, db), db
}

func post(h *login.Handler, form url.Values, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }() // re-render needs a booted template engine
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_ExistingUser(t *testing.T) {
	handler, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", true)

	rec := post(handler, url.Values{"org_id": {org.ID.Hex()}, "email": {"ANN@example.com"}}, "/login")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Errorf("Location: got %q, want %q", loc, "/home")
	}
	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleLoginPost_SignUpFirstUserIsAdmin(t *testing.T) {
	handler, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")

	rec := post(handler, url.Values{"org_id": {org.ID.Hex()}, "email": {"first@example.com"}, "name": {"First"}}, "/login")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	rec = post(handler, url.Values{"org_id": {org.ID.Hex()}, "email": {"second@example.com"}, "name": {"Second"}}, "/login")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	users := userstore.New(db)
	first, err := users.GetByEmail(ctx, org.ID, "first@example.com")
	if err != nil {
		t.Fatalf("first user not created: %v", err)
	}
	second, err := users.GetByEmail(ctx, org.ID, "second@example.com")
	if err != nil {
		t.Fatalf("second user not created: %v", err)
	}
	if !first.IsAdmin || second.IsAdmin {
		t.Errorf("admin flags: first=%v second=%v", first.IsAdmin, second.IsAdmin)
	}
}

func TestHandleLoginPost_NewEmailWithoutName(t *testing.T) {
	handler, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	rec := post(handler, url.Values{"org_id": {org.ID.Hex()}, "email": {"new@example.com"}}, "/login")

	if rec.Code == http.StatusSeeOther {
		t.Fatal("should not sign in without a name")
	}
	if n, _ := userstore.New(db).CountByOrg(ctx, org.ID); n != 0 {
		t.Errorf("users created = %d, want 0", n)
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	rec := post(handler, url.Values{"email": {"x@example.com"}}, "/login")
	if rec.Code == http.StatusSeeOther || hasSessionCookie(rec) {
		t.Error("sign-in without organization should fail")
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	handler, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	fx.CreateUser(ctx, org.ID, "Ann", "ann@example.com", true)

	rec := post(handler, url.Values{
		"org_id": {org.ID.Hex()},
		"email":  {"ann@example.com"},
		"return": {"/progress"},
	}, "/login")
	if loc := rec.Header().Get("Location"); loc != "/progress" {
		t.Errorf("Location: got %q, want %q", loc, "/progress")
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	req := testutil.WithUser(httptest.NewRequest("GET", "/login", nil), testutil.TestUser{ID: "507f1f77bcf86cd799439011", Role: "member"})
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect, got %d", rec.Code)
	}
}

func TestHandleLoginPost_AuditsSignUpAndLogin(t *testing.T) {
	handler, fx, db := newTestHandler(t)
	store := audit.New(db)
	handler.Audit = auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "off"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Acme")
	form := url.Values{"org_id": {org.ID.Hex()}, "email": {"bo@example.com"}, "name": {"Bo"}}
	post(handler, form, "/login")
	post(handler, form, "/login")

	events, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &org.ID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].EventType != audit.EventLoginSuccess || events[1].EventType != audit.EventSignUp {
		t.Errorf("event order: %q, %q", events[0].EventType, events[1].EventType)
	}
	if events[1].Details["is_admin"] != "true" {
		t.Errorf("first sign-up should be admin, details=%v", events[1].Details)
	}
}
