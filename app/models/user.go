package models

import (
	"strings"
	"time"
)

// ParseRole maps a raw role string, in either case, to a Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleModerator, RoleAdmin:
		return r, true
	}
	return "", false
}

// IsModerator reports whether the role may moderate content.
func (r Role) IsModerator() bool {
	return r == RoleModerator || r == RoleAdmin
}

// IsModerator reports whether the actor may moderate content.
func (a Actor) IsModerator() bool {
	return a.Role.IsModerator()
}

// CanModify reports whether the actor owns the resource or may moderate it.
func (a Actor) CanModify(ownerID int) bool {
	return a.UserID == ownerID || a.IsModerator()
}

// NormalizeNickname returns the canonical form used for uniqueness checks.
func NormalizeNickname(nickname string) string {
	return strings.ToLower(strings.TrimSpace(nickname))
}

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	return validate.Struct(u)
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate() {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Nickname = strings.TrimSpace(u.Nickname)
}
