package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID: id.Hex(), Name: "Ada", Role: "Admin",
	})

	role, name, uid, ok := authz.UserCtx(r)
	if !ok || role != "admin" || name != "Ada" || uid != id {
		t.Errorf("UserCtx = %q %q %v %v", role, name, uid, ok)
	}
	if !authz.IsAdmin(r) {
		t.Error("expected IsAdmin")
	}
}

func TestUserCtx_NoUserOrBadID(t *testing.T) {
	role, _, _, ok := authz.UserCtx(httptest.NewRequest("GET", "/", nil))
	if ok || role != "visitor" {
		t.Errorf("expected visitor, got %q ok=%v", role, ok)
	}

	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "bad", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(r); ok {
		t.Error("expected malformed id to fail closed")
	}
	if authz.IsAdmin(r) {
		t.Error("malformed id must not be admin")
	}
}

func TestScope(t *testing.T) {
	orgID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID: userID.Hex(), Role: "member", OrganizationID: orgID.Hex(),
	})

	gotOrg, gotUser, ok := authz.Scope(r)
	if !ok || gotOrg != orgID || gotUser != userID {
		t.Errorf("Scope = %v %v %v", gotOrg, gotUser, ok)
	}

	noOrg := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: userID.Hex(), Role: "member"})
	if _, _, ok := authz.Scope(noOrg); ok {
		t.Error("expected Scope to fail without organization")
	}
}
