package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account kinds the backend distinguishes.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// RoleEndpoints lists the role-specific backend paths. The two roles share
// the same behaviour and differ only in the path prefix.
type RoleEndpoints struct {
	Register         string
	Login            string
	Profile          string
	UploadProfilePic string
}

var roleEndpoints = map[Role]RoleEndpoints{
	RoleAdmin:    endpointsFor("/api/admin"),
	RoleEmployee: endpointsFor("/api/users"),
}

func endpointsFor(prefix string) RoleEndpoints {
	return RoleEndpoints{
		Register:         prefix + "/register",
		Login:            prefix + "/login",
		Profile:          prefix + "/profile",
		UploadProfilePic: prefix + "/upload-profile-pic",
	}
}

// ParseRole accepts "admin" and "employee" (plus the "user" alias used by the
// backend paths), case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleEmployee), "user", "users":
		return RoleEmployee, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleEndpoints[r]
	return ok
}

// Endpoints returns the endpoint table for r.
func (r Role) Endpoints() (RoleEndpoints, error) {
	ep, ok := roleEndpoints[r]
	if !ok {
		return RoleEndpoints{}, fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return ep, nil
}

func (r Role) String() string { return string(r) }
