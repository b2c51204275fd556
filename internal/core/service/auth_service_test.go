package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, _ domain.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	copy.ID = strconv.Itoa(r.nextID)
	r.nextID++
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Nombre != nil {
		u.Nombre = *update.Nombre
	}
	if update.Rol != nil {
		u.Rol = *update.Rol
	}
	if update.Activo != nil {
		u.Activo = *update.Activo
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) UpdateLastAccess(_ context.Context, id string, at time.Time) error {
	if u, ok := r.users[id]; ok {
		t := at
		u.UltimoAcceso = &t
	}
	return nil
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password, rol string, activo bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := repo.Create(context.Background(), &domain.User{
		Email:        email,
		Nombre:       "Test User",
		Rol:          rol,
		Activo:       activo,
		PasswordHash: string(hash),
		CreadoEn:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 7*24*time.Hour, zerolog.Nop())

	res, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected both tokens, got access=%q refresh=%q", res.AccessToken, res.RefreshToken)
	}
	if res.TokenType != "bearer" {
		t.Fatalf("unexpected token type: %s", res.TokenType)
	}
	if res.ExpiresIn != 1800 {
		t.Fatalf("unexpected expires_in: %d", res.ExpiresIn)
	}

	claims, err := ParseClaims(res.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.Type != TokenTypeAccess {
		t.Fatalf("expected access token type, got %q", claims.Type)
	}
	if claims.Email != "tecnico@residencia.cl" || claims.Rol != domain.RoleTecnico {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 0, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "tecnico@residencia.cl", "otra"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserSameError(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), nil, "secret", 30*time.Minute, 0, zerolog.Nop())

	// Unknown account and wrong password must be indistinguishable.
	if _, err := svc.Login(context.Background(), "nadie@residencia.cl", "x"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "inactivo@residencia.cl", "secreto123", domain.RoleTecnico, false)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 0, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "inactivo@residencia.cl", "secreto123"); err != domain.ErrUserDisabled {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

type blockedLimiter struct{}

func (blockedLimiter) Allow(context.Context, string, string) (bool, error) { return false, nil }
func (blockedLimiter) Reset(context.Context, string, string) error         { return nil }

func TestAuthService_Login_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, blockedLimiter{}, "secret", 30*time.Minute, 0, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123"); err != domain.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, string) (bool, error) {
	return false, context.DeadlineExceeded
}
func (brokenLimiter) Reset(context.Context, string, string) error {
	return context.DeadlineExceeded
}

func TestAuthService_Login_LimiterUnavailable(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, brokenLimiter{}, "secret", 30*time.Minute, 0, zerolog.Nop())

	// A limiter outage is logged but never locks accounts out.
	res, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login returned error during limiter outage: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("expected an access token despite the limiter outage")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 7*24*time.Hour, zerolog.Nop())

	login, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	res, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	claims, err := ParseClaims(res.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.Type != TokenTypeAccess {
		t.Fatalf("refresh must issue an access token, got type %q", claims.Type)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 7*24*time.Hour, zerolog.Nop())

	login, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), login.AccessToken); err != domain.ErrWrongTokenType {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestAuthService_Refresh_DisabledSinceIssue(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 7*24*time.Hour, zerolog.Nop())

	login, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	inactivo := false
	if _, err := repo.Update(context.Background(), u.ID, ports.UserUpdate{Activo: &inactivo}); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), login.RefreshToken); err != domain.ErrUserDisabled {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 0, zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), u.ID, "mala", "nueva5678"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "secreto123", "corta"); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "secreto123", "nueva5678"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "tecnico@residencia.cl", "nueva5678"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestParseClaims_Tampered(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 0, zerolog.Nop())

	login, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := ParseClaims(login.AccessToken, "otra-clave"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := ParseClaims(login.AccessToken+"x", "secret"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for altered token, got %v", err)
	}
}

func TestParseClaims_Expired(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "tecnico@residencia.cl", "secreto123", domain.RoleTecnico, true)
	svc := NewAuthService(repo, nil, "secret", 30*time.Minute, 0, zerolog.Nop())
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	login, err := svc.Login(context.Background(), "tecnico@residencia.cl", "secreto123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := ParseClaims(login.AccessToken, "secret"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
