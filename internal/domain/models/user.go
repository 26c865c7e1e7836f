// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - StudentID / studentID / student_id: The club-issued student number, used as a
//     denormalized join key by registrations and posts

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognised by the API.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is a club member or administrator.
//
// Password holds a bcrypt hash and is never serialized to JSON, so encoding a
// User (including into token claims) always produces the sanitized form.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EnglishName   string             `bson:"english_name" json:"english_name"`
	EnglishNameCI string             `bson:"english_name_ci,omitempty" json:"-"` // folded for search
	StudentID     string             `bson:"student_id" json:"student_id"`
	Email         string             `bson:"email" json:"email"` // lowercase, unique
	Password      string             `bson:"password" json:"-"`
	Gender        string             `bson:"gender" json:"gender"`
	Role          string             `bson:"role" json:"role"`
	Icon          string             `bson:"icon,omitempty" json:"icon,omitempty"`

	// Access is nil on records that predate the flag; those are treated as enabled.
	Access     *bool      `bson:"access,omitempty" json:"access,omitempty"`
	ExpiryDate *time.Time `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	IPAddress  string     `bson:"ip_address,omitempty" json:"-"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}

// HasAccess reports whether the account has not been disabled by an admin.
func (u User) HasAccess() bool {
	return u.Access == nil || *u.Access
}

// IsExpired reports whether the membership expiry date lies before now.
func (u User) IsExpired(now time.Time) bool {
	return u.ExpiryDate != nil && u.ExpiryDate.Before(now)
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MemberSummary is the projection used by member listings.
type MemberSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	EnglishName string             `bson:"english_name" json:"english_name"`
	StudentID   string             `bson:"student_id" json:"student_id"`
	Email       string             `bson:"email" json:"email"`
	Gender      string             `bson:"gender" json:"gender"`
}

// MemberCard is the public profile shown next to posts and comments.
type MemberCard struct {
	StudentID   string `bson:"student_id" json:"student_id"`
	Icon        string `bson:"icon,omitempty" json:"icon"`
	EnglishName string `bson:"english_name" json:"english_name"`
}
