package domain

// Permission is an opaque identifier for one allowed action on one resource
// area, of the form <area>:<action>[:<scope>]. The catalog is a flat, closed
// set: there is no implied containment between scoped variants (holding
// "task:edit:any" does not grant "task:edit:self").
type Permission string

// User management permissions.
const (
	PermUserViewSelf    Permission = "user:view:self"
	PermUserEditSelf    Permission = "user:edit:self"
	PermUserViewAny     Permission = "user:view:any"
	PermUserEditAny     Permission = "user:edit:any"
	PermUserCreate      Permission = "user:create"
	PermUserDelete      Permission = "user:delete"
	PermUserManageRoles Permission = "user:manage:roles"
)

// Care relationship permissions.
const (
	PermRelationViewSelf Permission = "relation:view:self"
	PermRelationViewAny  Permission = "relation:view:any"
	PermRelationCreate   Permission = "relation:create"
	PermRelationEdit     Permission = "relation:edit"
	PermRelationDelete   Permission = "relation:delete"
)

// Task management permissions.
const (
	PermTaskViewSelf     Permission = "task:view:self"
	PermTaskViewAssigned Permission = "task:view:assigned"
	PermTaskViewAny      Permission = "task:view:any"
	PermTaskCreate       Permission = "task:create"
	PermTaskEditSelf     Permission = "task:edit:self"
	PermTaskEditAssigned Permission = "task:edit:assigned"
	PermTaskEditAny      Permission = "task:edit:any"
	PermTaskDelete       Permission = "task:delete"
)

// Health metrics permissions.
const (
	PermHealthViewSelf     Permission = "health:view:self"
	PermHealthViewAssigned Permission = "health:view:assigned"
	PermHealthViewAny      Permission = "health:view:any"
	PermHealthCreate       Permission = "health:create"
	PermHealthEdit         Permission = "health:edit"
	PermHealthDelete       Permission = "health:delete"
)

// Medication permissions.
const (
	PermMedViewSelf     Permission = "med:view:self"
	PermMedViewAssigned Permission = "med:view:assigned"
	PermMedViewAny      Permission = "med:view:any"
	PermMedCreate       Permission = "med:create"
	PermMedEdit         Permission = "med:edit"
	PermMedDelete       Permission = "med:delete"
)

// Appointment permissions.
const (
	PermApptViewSelf     Permission = "appt:view:self"
	PermApptViewAssigned Permission = "appt:view:assigned"
	PermApptViewAny      Permission = "appt:view:any"
	PermApptCreate       Permission = "appt:create"
	PermApptEdit         Permission = "appt:edit"
	PermApptDelete       Permission = "appt:delete"
)

// Note permissions.
const (
	PermNoteViewSelf     Permission = "note:view:self"
	PermNoteViewAssigned Permission = "note:view:assigned"
	PermNoteViewAny      Permission = "note:view:any"
	PermNoteCreate       Permission = "note:create"
	PermNoteEditSelf     Permission = "note:edit:self"
	PermNoteEditAssigned Permission = "note:edit:assigned"
	PermNoteEditAny      Permission = "note:edit:any"
	PermNoteDelete       Permission = "note:delete"
)

// AI assistance permissions.
const (
	PermAIUse   Permission = "ai:use"
	PermAIAdmin Permission = "ai:admin"
)

// System permissions.
const (
	PermSystemViewLogs      Permission = "system:view:logs"
	PermSystemConfig        Permission = "system:config"
	PermSystemViewAnalytics Permission = "system:view:analytics"
)

// allPermissions is the catalog. The admin role map entry is derived from
// this slice, so a permission added here is automatically granted to admins.
var allPermissions = []Permission{
	PermUserViewSelf, PermUserEditSelf, PermUserViewAny, PermUserEditAny,
	PermUserCreate, PermUserDelete, PermUserManageRoles,

	PermRelationViewSelf, PermRelationViewAny, PermRelationCreate,
	PermRelationEdit, PermRelationDelete,

	PermTaskViewSelf, PermTaskViewAssigned, PermTaskViewAny, PermTaskCreate,
	PermTaskEditSelf, PermTaskEditAssigned, PermTaskEditAny, PermTaskDelete,

	PermHealthViewSelf, PermHealthViewAssigned, PermHealthViewAny,
	PermHealthCreate, PermHealthEdit, PermHealthDelete,

	PermMedViewSelf, PermMedViewAssigned, PermMedViewAny,
	PermMedCreate, PermMedEdit, PermMedDelete,

	PermApptViewSelf, PermApptViewAssigned, PermApptViewAny,
	PermApptCreate, PermApptEdit, PermApptDelete,

	PermNoteViewSelf, PermNoteViewAssigned, PermNoteViewAny, PermNoteCreate,
	PermNoteEditSelf, PermNoteEditAssigned, PermNoteEditAny, PermNoteDelete,

	PermAIUse, PermAIAdmin,

	PermSystemViewLogs, PermSystemConfig, PermSystemViewAnalytics,
}

// AllPermissions returns the full permission catalog. The returned slice is a
// copy; callers cannot mutate the catalog.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}
