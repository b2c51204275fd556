package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/residencia-nna/residencia-api/internal/api/middleware"
	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	refreshFn        func(ctx context.Context, refreshToken string) (*ports.RefreshResult, error)
	meFn             func(ctx context.Context, userID string) (*domain.User, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ana@residencia.cl" || password != "secreta123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				AccessToken:  "acc-token",
				RefreshToken: "ref-token",
				TokenType:    "Bearer",
				ExpiresIn:    1800,
				User:         &domain.User{ID: "u1", Email: email, Nombre: "Ana", Rol: domain.RoleTecnico, Activo: true},
			}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"ana@residencia.cl","password":"secreta123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "acc-token" || resp["refresh_token"] != "ref-token" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if resp["expires_in"] != float64(1800) {
		t.Fatalf("expected expires_in 1800, got %v", resp["expires_in"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "ana@residencia.cl" || user["rol"] != domain.RoleTecnico {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"ana@residencia.cl","password":"mala"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingEmail(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", `{"password":"secreta123"}`)
	err := h.Login(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", "{")
	err := h.Login(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (*ports.RefreshResult, error) {
			if token != "ref-token" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &ports.RefreshResult{AccessToken: "new-acc", TokenType: "Bearer", ExpiresIn: 1800}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"ref-token"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "new-acc" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Refresh_WrongTokenType(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (*ports.RefreshResult, error) {
			return nil, domain.ErrWrongTokenType
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"acc-token"}`)
	if err := h.Refresh(c); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestAuthHandler_Me_RequiresPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		meFn: func(context.Context, string) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodGet, "/api/auth/me", "")
	err := h.Me(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/logout", "")
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Email: "ana@residencia.cl", Rol: domain.RoleTecnico})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["mensaje"] != "sesión cerrada correctamente" {
		t.Fatalf("unexpected message: %q", body["mensaje"])
	}
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, userID, current, next string) error {
			if userID != "u1" || current != "vieja1234" || next != "nueva12345" {
				t.Fatalf("unexpected args: %s %s %s", userID, current, next)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/change-password",
		`{"password_actual":"vieja1234","password_nueva":"nueva12345"}`)
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Email: "ana@residencia.cl", Rol: domain.RoleTecnico})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		changePasswordFn: func(context.Context, string, string, string) error {
			t.Fatal("service should not be called")
			return nil
		},
	}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/change-password",
		`{"password_actual":"vieja1234","password_nueva":"corta"}`)
	middleware.SetPrincipal(c, domain.Principal{UserID: "u1", Rol: domain.RoleTecnico})

	err := h.ChangePassword(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
