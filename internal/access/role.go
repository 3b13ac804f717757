package access

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRole is returned when a role string cannot be parsed.
var ErrInvalidRole = errors.New("invalid role")

// Role represents a user's access level for a document.
type Role int

const (
	// Viewer can only read document content.
	Viewer Role = iota
	// Editor can read and write document content.
	Editor
	// Owner has full access: read, write, and manage sharing.
	Owner
)

// Permission represents an operation class that a role may grant.
type Permission int

const (
	// View allows reading document content and its collaborator list.
	View Permission = iota
	// Edit allows modifying document content.
	Edit
	// Manage allows changing collaborators and share links.
	Manage
)

// grants is the fixed role-to-permission table. Every role grants at
// least View; an absent role grants nothing.
var grants = map[Role]map[Permission]bool{
	Owner:  {View: true, Edit: true, Manage: true},
	Editor: {View: true, Edit: true},
	Viewer: {View: true},
}

// Can returns true if the role grants the permission.
// Unknown roles grant nothing.
func (r Role) Can(p Permission) bool {
	return grants[r][p]
}

// HasPermission reports whether a possibly-absent role grants a permission.
// ok is false when the subject holds no role at all, which grants nothing.
func HasPermission(r Role, ok bool, p Permission) bool {
	if !ok {
		return false
	}

	return r.Can(p)
}

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case Viewer:
		return "viewer"
	case Editor:
		return "editor"
	case Owner:
		return "owner"
	default:
		return "unknown"
	}
}

// ParseRole converts a string to a Role, case-insensitively.
// Returns ErrInvalidRole for anything but the three canonical names.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "viewer":
		return Viewer, nil
	case "editor":
		return Editor, nil
	case "owner":
		return Owner, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// String returns the string representation of the permission.
func (p Permission) String() string {
	switch p {
	case View:
		return "view"
	case Edit:
		return "edit"
	case Manage:
		return "manage"
	default:
		return "unknown"
	}
}
