package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/normalize"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is the signed-in identity a handler test runs as.
type TestUser struct {
	ID             string
	Name           string
	Email          string
	Role           string
	OrganizationID string
}

func sessionFor(orgID primitive.ObjectID, name, email string, admin bool) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           name,
		Email:          email,
		Role:           normalize.Role(admin),
		OrganizationID: orgID.Hex(),
	}
}

// AdminUser is an admin of orgID with no backing user document.
func AdminUser(orgID primitive.ObjectID) TestUser {
	return sessionFor(orgID, "Test Admin", "admin@test.com", true)
}

// MemberUser is a member of orgID with no backing user document.
func MemberUser(orgID primitive.ObjectID) TestUser {
	return sessionFor(orgID, "Test Member", "member@test.com", false)
}

// WithUser puts user in the request context, skipping the session cookie.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	})
}

// NewFormRequest creates a url-encoded form POST.
func NewFormRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// WithChiURLParam sets one chi route parameter, as the router would.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
