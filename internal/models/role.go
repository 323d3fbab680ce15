package models

// Role is the closed set of account roles on the platform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHost    Role = "host"
	RolePlanner Role = "planner"
	RoleGuest   Role = "guest"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHost, RolePlanner, RoleGuest:
		return true
	}
	return false
}

// RequiresApproval reports whether accounts with this role must be approved
// by an admin before they can log in.
func (r Role) RequiresApproval() bool {
	switch r {
	case RolePlanner, RoleGuest:
		return true
	case RoleAdmin, RoleHost:
		return false
	}
	return false
}
