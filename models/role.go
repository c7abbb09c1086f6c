package models

import "strings"

// Role is the closed set of account roles. It is stored as text but only
// ever takes one of the three values below.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole maps free-form input onto a Role. Unknown input yields false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleCitizen:
		return RoleCitizen, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// CanSetStatus reports whether the role may move a post through the
// handling workflow.
func (r Role) CanSetStatus() bool {
	switch r {
	case RoleStaff, RoleAdmin:
		return true
	case RoleCitizen:
		return false
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
