package domain

import "fmt"

// Role is one of the three fixed caller categories.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleCaregiver     Role = "caregiver"
	RoleCareRecipient Role = "care_recipient"
)

// Roles returns all defined roles.
func Roles() []Role {
	return []Role{RoleAdmin, RoleCaregiver, RoleCareRecipient}
}

// Valid reports whether the role is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCaregiver, RoleCareRecipient:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts a raw string into a Role, rejecting anything outside
// the fixed role table.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}
