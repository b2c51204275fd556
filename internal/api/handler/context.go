package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/api/middleware"
	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// ctxPrincipal extracts the identity injected by the Auth middleware. A
// missing identity means the route was registered without the middleware;
// fail closed.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p.UserID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "faltan credenciales de autenticación")
	}
	return p, nil
}

// pagination reads skip/limit query params with a bounded default page.
func pagination(c echo.Context) (skip, limit int64) {
	skip, _ = strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return skip, limit
}
