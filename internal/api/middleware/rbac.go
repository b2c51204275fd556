package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// RequireRole enforces a minimum role. Roles are ordered (viewer <
// tecnico < coordinador < admin), so any role at or above the minimum
// passes. Unknown roles never pass.
func RequireRole(minRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if !domain.HasPermission(p.Rol, minRole) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("se requiere rol %s o superior", minRole))
			}
			return next(c)
		}
	}
}
