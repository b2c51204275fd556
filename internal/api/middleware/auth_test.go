package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

const testSecret = "test-secret"

type stubAccounts struct {
	users map[string]*domain.User
}

func (s *stubAccounts) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, users *stubAccounts, authHeader string) (domain.Principal, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got domain.Principal
	handler := Auth(testSecret, users)(func(c echo.Context) error {
		got = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})
	return got, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	users := &stubAccounts{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "tecnico@residencia.cl", Rol: domain.RoleTecnico, Activo: true},
	}}
	token := mintToken(t, jwt.MapClaims{
		"sub": "u1", "email": "tecnico@residencia.cl", "rol": domain.RoleTecnico, "type": "access",
	})

	p, err := runAuth(t, users, "Bearer "+token)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if p.UserID != "u1" || p.Rol != domain.RoleTecnico {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, &stubAccounts{}, "")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, err := runAuth(t, &stubAccounts{}, "Token abc")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	users := &stubAccounts{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "tecnico@residencia.cl", Rol: domain.RoleTecnico, Activo: true},
	}}
	token := mintToken(t, jwt.MapClaims{
		"sub": "u1", "email": "tecnico@residencia.cl", "rol": domain.RoleTecnico, "type": "refresh",
	})

	if _, err := runAuth(t, users, "Bearer "+token); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestAuth_MissingSubClaim(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"email": "x@residencia.cl", "type": "access"})

	if _, err := runAuth(t, &stubAccounts{}, "Bearer "+token); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestAuth_DeletedAccount(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub": "borrado", "email": "x@residencia.cl", "type": "access",
	})

	if _, err := runAuth(t, &stubAccounts{users: map[string]*domain.User{}}, "Bearer "+token); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuth_DisabledAccount(t *testing.T) {
	users := &stubAccounts{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "x@residencia.cl", Rol: domain.RoleTecnico, Activo: false},
	}}
	token := mintToken(t, jwt.MapClaims{"sub": "u1", "email": "x@residencia.cl", "type": "access"})

	if _, err := runAuth(t, users, "Bearer "+token); !errors.Is(err, domain.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestAuth_Expired(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub": "u1", "email": "x@residencia.cl", "type": "access",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	if _, err := runAuth(t, &stubAccounts{}, "Bearer "+token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
