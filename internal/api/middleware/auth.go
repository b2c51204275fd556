package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/service"
)

const principalKey = "principal"

// AccountLookup is the live re-check behind the stateless token gate.
type AccountLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the bearer token and injects the caller's identity into
// the request context. The gate has two stages: a stateless claim check
// (signature, expiry, token type) and a live account check, so disabling
// an account revokes access immediately even for unexpired tokens.
func Auth(jwtSecret string, users AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "falta encabezado de autorización")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "encabezado de autorización inválido")
			}

			claims, err := service.ParseClaims(parts[1], jwtSecret)
			if err != nil {
				return err
			}
			if claims.Type != service.TokenTypeAccess {
				return domain.ErrWrongTokenType
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return err
			}
			if !user.Activo {
				return domain.ErrUserDisabled
			}

			c.Set(principalKey, domain.Principal{
				UserID: user.ID,
				Email:  user.Email,
				Rol:    user.Rol,
			})
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated identity stored by Auth.
func PrincipalFrom(c echo.Context) domain.Principal {
	p, _ := c.Get(principalKey).(domain.Principal)
	return p
}

// SetPrincipal injects an identity directly, for handler tests.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}
