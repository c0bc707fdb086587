// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user administers their organization.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// UserOrgID returns the current user's organization ID as an ObjectID.
// Returns NilObjectID if user is not logged in or the id is malformed.
func UserOrgID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.OrganizationID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// Scope returns (orgID, userID, true) for a signed-in user with valid ids.
// Every per-user page reads and writes under this pair.
func Scope(r *http.Request) (orgID, userID primitive.ObjectID, ok bool) {
	_, _, userID, ok = UserCtx(r)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	orgID = UserOrgID(r)
	if orgID.IsZero() {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return orgID, userID, true
}
