// Package authz answers ownership questions about the caller of a request.
// Role gates on whole route groups live in jwtauth.RequireRole; this package
// covers the per-record "mine or admin" checks inside handlers.
//
// Users are identified two ways: ID is the MongoDB _id, StudentID is the
// club-issued student number that registrations and posts are keyed by.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	ID        primitive.ObjectID
	StudentID string
	Role      string // lowercased
}

// FromRequest returns the verified caller. Claims with a zero user ID are
// treated as absent.
func FromRequest(r *http.Request) (Caller, bool) {
	claims, ok := jwtauth.ClaimsFromContext(r.Context())
	if !ok || claims.User.ID.IsZero() {
		return Caller{}, false
	}
	return Caller{
		ID:        claims.User.ID,
		StudentID: claims.User.StudentID,
		Role:      strings.ToLower(claims.User.Role),
	}, true
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// OwnsStudentID reports whether studentID is the caller's own, non-empty one.
func (c Caller) OwnsStudentID(studentID string) bool {
	return c.StudentID != "" && c.StudentID == studentID
}

// IsAdmin reports whether the request carries admin claims.
func IsAdmin(r *http.Request) bool {
	c, ok := FromRequest(r)
	return ok && c.IsAdmin()
}

// CanEditUser allows the user themself or an admin.
func CanEditUser(r *http.Request, userID primitive.ObjectID) bool {
	c, ok := FromRequest(r)
	return ok && (c.IsAdmin() || c.ID == userID)
}

// CanActFor allows the holder of studentID or an admin, for records keyed by
// student number such as registrations and posts.
func CanActFor(r *http.Request, studentID string) bool {
	c, ok := FromRequest(r)
	return ok && (c.IsAdmin() || c.OwnsStudentID(studentID))
}
