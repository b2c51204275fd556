package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

func runRBAC(t *testing.T, userRole, minRole string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userRole != "" {
		SetPrincipal(c, domain.Principal{UserID: "u1", Rol: userRole})
	}

	handler := RequireRole(minRole)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRole_Hierarchy(t *testing.T) {
	cases := []struct {
		userRole string
		minRole  string
		allowed  bool
	}{
		{domain.RoleAdmin, domain.RoleViewer, true},
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.RoleCoordinador, domain.RoleTecnico, true},
		{domain.RoleCoordinador, domain.RoleAdmin, false},
		{domain.RoleTecnico, domain.RoleTecnico, true},
		{domain.RoleTecnico, domain.RoleCoordinador, false},
		{domain.RoleViewer, domain.RoleViewer, true},
		{domain.RoleViewer, domain.RoleTecnico, false},
	}

	for _, tc := range cases {
		err := runRBAC(t, tc.userRole, tc.minRole)
		if tc.allowed && err != nil {
			t.Fatalf("%s accessing %s-route: expected allow, got %v", tc.userRole, tc.minRole, err)
		}
		if !tc.allowed {
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusForbidden {
				t.Fatalf("%s accessing %s-route: expected 403, got %v", tc.userRole, tc.minRole, err)
			}
		}
	}
}

func TestRequireRole_UnknownRoleDenied(t *testing.T) {
	var he *echo.HTTPError
	if err := runRBAC(t, "superusuario", domain.RoleViewer); !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("unknown role must be denied even at the lowest level, got %v", err)
	}
	if err := runRBAC(t, "", domain.RoleViewer); !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("missing principal must be denied, got %v", err)
	}
}

func TestRequireRole_ErrorNamesRequiredRole(t *testing.T) {
	err := runRBAC(t, domain.RoleViewer, domain.RoleCoordinador)
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, domain.RoleCoordinador) {
		t.Fatalf("error should name the required role, got %q", msg)
	}
}
