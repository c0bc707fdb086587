// Package normalize canonicalizes user-entered values before they are
// stored or compared.
package normalize

import (
	"strings"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses inner whitespace, preserving case.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Gender maps any spelling of male/female onto the stored values.
// Unknown values become Male, which is also the profile default.
func Gender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f":
		return models.GenderFemale
	default:
		return models.GenderMale
	}
}

// Role derives the session role from the admin flag.
func Role(isAdmin bool) string {
	if isAdmin {
		return "admin"
	}
	return "member"
}
