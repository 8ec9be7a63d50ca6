package user

import "fmt"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

const DefaultRole = RolePatient

var Roles = []Role{RoleAdmin, RoleDoctor, RolePatient}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole treats an empty value as the default role.
func ParseRole(raw string) (Role, error) {
	if raw == "" {
		return DefaultRole, nil
	}
	role := Role(raw)
	if !role.IsValid() {
		return role, fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// DashboardPath is where a user with this role lands after signing in.
func (r Role) DashboardPath() string {
	return "/" + string(r)
}
