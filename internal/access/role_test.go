package access_test

import (
	"errors"
	"testing"

	"github.com/serroba/docshare/internal/access"
)

func TestRole_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role     access.Role
		expected string
	}{
		{access.Viewer, "viewer"},
		{access.Editor, "editor"},
		{access.Owner, "owner"},
		{access.Role(99), "unknown"},
	}

	for _, tt := range tests {
		if tt.role.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.role.String())
		}
	}
}

func TestPermission_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		perm     access.Permission
		expected string
	}{
		{access.View, "view"},
		{access.Edit, "edit"},
		{access.Manage, "manage"},
		{access.Permission(99), "unknown"},
	}

	for _, tt := range tests {
		if tt.perm.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.perm.String())
		}
	}
}

func TestRole_Can(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role      access.Role
		canView   bool
		canEdit   bool
		canManage bool
	}{
		{access.Viewer, true, false, false},
		{access.Editor, true, true, false},
		{access.Owner, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			t.Parallel()

			if tt.role.Can(access.View) != tt.canView {
				t.Errorf("View: expected %v, got %v", tt.canView, tt.role.Can(access.View))
			}

			if tt.role.Can(access.Edit) != tt.canEdit {
				t.Errorf("Edit: expected %v, got %v", tt.canEdit, tt.role.Can(access.Edit))
			}

			if tt.role.Can(access.Manage) != tt.canManage {
				t.Errorf("Manage: expected %v, got %v", tt.canManage, tt.role.Can(access.Manage))
			}
		})
	}
}

func TestRole_Can_EveryRoleViews(t *testing.T) {
	t.Parallel()

	for _, role := range []access.Role{access.Viewer, access.Editor, access.Owner} {
		if !role.Can(access.View) {
			t.Errorf("role %s should grant view", role)
		}
	}
}

func TestRole_Can_Monotonic(t *testing.T) {
	t.Parallel()

	// Owner grants a superset of editor, editor a superset of viewer.
	for _, perm := range []access.Permission{access.View, access.Edit, access.Manage} {
		if access.Viewer.Can(perm) && !access.Editor.Can(perm) {
			t.Errorf("editor missing viewer permission %s", perm)
		}

		if access.Editor.Can(perm) && !access.Owner.Can(perm) {
			t.Errorf("owner missing editor permission %s", perm)
		}
	}
}

func TestRole_Can_UnknownRole(t *testing.T) {
	t.Parallel()

	for _, perm := range []access.Permission{access.View, access.Edit, access.Manage} {
		if access.Role(99).Can(perm) {
			t.Errorf("unknown role should not grant %s", perm)
		}
	}
}

func TestHasPermission_AbsentRole(t *testing.T) {
	t.Parallel()

	for _, perm := range []access.Permission{access.View, access.Edit, access.Manage} {
		if access.HasPermission(0, false, perm) {
			t.Errorf("absent role should not grant %s", perm)
		}
	}
}

func TestHasPermission_PresentRole(t *testing.T) {
	t.Parallel()

	if !access.HasPermission(access.Editor, true, access.Edit) {
		t.Error("editor should grant edit")
	}

	if access.HasPermission(access.Viewer, true, access.Manage) {
		t.Error("viewer should not grant manage")
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected access.Role
	}{
		{"viewer", access.Viewer},
		{"editor", access.Editor},
		{"owner", access.Owner},
		{"OWNER", access.Owner},
		{"Editor", access.Editor},
	}

	for _, tt := range tests {
		role, err := access.ParseRole(tt.input)
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", tt.input, err)

			continue
		}

		if role != tt.expected {
			t.Errorf("ParseRole(%q): expected %v, got %v", tt.input, tt.expected, role)
		}
	}
}

func TestParseRole_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"admin", "", "superuser", "viewer "} {
		_, err := access.ParseRole(input)
		if !errors.Is(err, access.ErrInvalidRole) {
			t.Errorf("ParseRole(%q): expected ErrInvalidRole, got %v", input, err)
		}
	}
}

func TestParseRole_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, role := range []access.Role{access.Viewer, access.Editor, access.Owner} {
		parsed, err := access.ParseRole(role.String())
		if err != nil {
			t.Errorf("round trip %s: unexpected error %v", role, err)

			continue
		}

		if parsed != role {
			t.Errorf("round trip: expected %v, got %v", role, parsed)
		}
	}
}
