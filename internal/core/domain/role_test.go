package domain

import "testing"

func TestHasPermission_Hierarchy(t *testing.T) {
	order := []string{RoleViewer, RoleTecnico, RoleCoordinador, RoleAdmin}

	for i, required := range order {
		for j, user := range order {
			want := j >= i
			if got := HasPermission(user, required); got != want {
				t.Fatalf("HasPermission(%s, %s) = %v, want %v", user, required, got, want)
			}
		}
	}
}

func TestHasPermission_UnknownRole(t *testing.T) {
	if HasPermission("guest", RoleViewer) {
		t.Fatalf("unknown role must never pass")
	}
	if HasPermission("", RoleViewer) {
		t.Fatalf("empty role must never pass")
	}
	// Even an unknown required role denies an unknown user role.
	if HasPermission("guest", "guest") {
		t.Fatalf("unknown vs unknown must deny")
	}
}

func TestCapabilityPredicates(t *testing.T) {
	cases := []struct {
		role       string
		edit       bool
		del        bool
		manage     bool
		reports    bool
	}{
		{RoleViewer, false, false, false, false},
		{RoleTecnico, false, false, false, false},
		{RoleCoordinador, true, false, false, true},
		{RoleAdmin, true, true, true, true},
	}

	for _, tc := range cases {
		if got := CanEditAnyRecord(tc.role); got != tc.edit {
			t.Fatalf("CanEditAnyRecord(%s) = %v", tc.role, got)
		}
		if got := CanDeleteRecords(tc.role); got != tc.del {
			t.Fatalf("CanDeleteRecords(%s) = %v", tc.role, got)
		}
		if got := CanManageUsers(tc.role); got != tc.manage {
			t.Fatalf("CanManageUsers(%s) = %v", tc.role, got)
		}
		if got := CanGenerateReports(tc.role); got != tc.reports {
			t.Fatalf("CanGenerateReports(%s) = %v", tc.role, got)
		}
	}
}
