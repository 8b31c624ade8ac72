// Package normalize canonicalizes user-entered values before they are
// stored or used in queries.
package normalize

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Username trims and lower-cases a username; usernames are unique in their
// stored (lowercase) form.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// IdentityID trims an identity provider id. Case is significant.
func IdentityID(s string) string {
	return strings.TrimSpace(s)
}

// Text trims a thread body.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// SortDirection maps "asc" (any case) to 1 and anything else to -1.
func SortDirection(s string) int {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return 1
	}
	return -1
}

// ObjectID parses a hex ObjectID, tolerating surrounding whitespace and the
// JSON quotes some clients leave on serialized ids.
func ObjectID(s string) (primitive.ObjectID, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	return primitive.ObjectIDFromHex(s)
}
