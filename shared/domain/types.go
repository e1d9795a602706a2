package domain

type (
	UserId  = int64
	Email   = string
	BoardId = int64
	CardId  = int64

	BoardTitle = string
	ShareToken = string
)

// CardKind tells how a card is rendered and which geometry it carries.
type CardKind string

const (
	CardKindText  CardKind = "text"
	CardKindImage CardKind = "image"
)

// Permission is the effective access level of a viewer on a board.
type Permission string

const (
	PermissionNone  Permission = "none"
	PermissionRead  Permission = "read"
	PermissionEdit  Permission = "edit"
	PermissionOwner Permission = "owner"
)

// CanEdit reports whether the level allows mutating cards.
func (p Permission) CanEdit() bool {
	return p == PermissionOwner || p == PermissionEdit
}

// ParsePermission maps a wire value to a Permission.
// Unknown values map to PermissionRead: a viewer that reached the board
// can always see it.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionOwner, PermissionEdit, PermissionRead, PermissionNone:
		return Permission(s)
	default:
		return PermissionRead
	}
}
