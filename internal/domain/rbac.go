package domain

import "fmt"

type permissionSet map[Permission]struct{}

func newPermissionSet(perms ...Permission) permissionSet {
	set := make(permissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// rolePermissions is the closed, static policy: constructed once at package
// initialization and never mutated at runtime. The admin entry is derived
// from the full catalog rather than hand-enumerated so it cannot drift out
// of sync as the catalog grows.
var rolePermissions = map[Role]permissionSet{
	RoleCareRecipient: newPermissionSet(
		PermUserViewSelf,
		PermUserEditSelf,
		PermRelationViewSelf,
		PermTaskViewSelf,
		PermTaskEditSelf,
		PermHealthViewSelf,
		PermMedViewSelf,
		PermApptViewSelf,
		PermApptCreate,
		PermNoteViewSelf,
		PermNoteCreate,
		PermNoteEditSelf,
		PermAIUse,
	),

	RoleCaregiver: newPermissionSet(
		PermUserViewSelf,
		PermUserEditSelf,

		PermRelationViewSelf,

		PermTaskViewSelf,
		PermTaskViewAssigned,
		PermTaskCreate,
		PermTaskEditSelf,
		PermTaskEditAssigned,

		PermHealthViewSelf,
		PermHealthViewAssigned,
		PermHealthCreate,
		PermHealthEdit,

		PermMedViewSelf,
		PermMedViewAssigned,
		PermMedCreate,
		PermMedEdit,

		PermApptViewSelf,
		PermApptViewAssigned,
		PermApptCreate,
		PermApptEdit,

		PermNoteViewSelf,
		PermNoteViewAssigned,
		PermNoteCreate,
		PermNoteEditSelf,
		PermNoteEditAssigned,

		PermAIUse,
	),

	RoleAdmin: newPermissionSet(allPermissions...),
}

// PermissionsFor returns the permission set held by role.
// Asking about a role outside the fixed role table is a configuration error,
// not an empty result: the caller gets ErrUnknownRole so that "role holds no
// permissions" and "role does not exist" stay distinguishable.
func PermissionsFor(role Role) ([]Permission, error) {
	set, ok := rolePermissions[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	// Preserve catalog order for a stable result.
	out := make([]Permission, 0, len(set))
	for _, p := range allPermissions {
		if _, held := set[p]; held {
			out = append(out, p)
		}
	}
	return out, nil
}

// HasPermission reports whether role holds permission. Unknown roles and
// unknown permissions evaluate to false; the evaluator itself never errors.
func HasPermission(role Role, permission Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, held := set[permission]
	return held
}

// HasAnyPermission reports whether role holds at least one of the given
// permissions (OR semantics). An empty requirement set is false for every
// role: an empty requirement must never vacuously pass.
func HasAnyPermission(role Role, permissions ...Permission) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasRole reports whether role is a member of the allowed set.
func HasRole(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
