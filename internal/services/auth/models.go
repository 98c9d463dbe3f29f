package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User roles, lowest privilege first.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User represents an identity + credential record.
// Credential fields never serialize to clients.
type User struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	Name                 string        `bson:"name" json:"name" example:"Jonas Miller"`
	Email                string        `bson:"email" json:"email" example:"jonas@example.com"`
	Role                 string        `bson:"role" json:"role" example:"user"`
	Photo                string        `bson:"photo,omitempty" json:"photo,omitempty" example:"jonas.jpg"`
	PasswordHash         string        `bson:"password_hash" json:"-"`
	PasswordChangedAt    time.Time     `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetToken   string        `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires time.Time     `bson:"password_reset_expires,omitempty" json:"-"`
	Active               bool          `bson:"active" json:"-"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. JWT iat carries second granularity, so the
// comparison is done on unix seconds.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// HasRole reports whether the user's role is in the allowed set.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
