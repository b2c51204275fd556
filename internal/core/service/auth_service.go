package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// Token type claims. Refresh tokens can only be exchanged for access
// tokens, never presented to protected routes.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// LoginLimiter bounds authentication attempts per account.
type LoginLimiter interface {
	Allow(ctx context.Context, scope, key string) (bool, error)
	Reset(ctx context.Context, scope, key string) error
}

// AuthService implements login, token refresh and password changes.
type AuthService struct {
	users      ports.UserRepository
	limiter    LoginLimiter
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(users ports.UserRepository, limiter LoginLimiter, jwtSecret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		limiter:    limiter,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, "login", email)
		if err != nil {
			// Redis being down must not lock everyone out.
			s.log.Warn().Err(err).Msg("login rate limiter unavailable")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Activo {
		return nil, domain.ErrUserDisabled
	}

	access, err := s.generateToken(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastAccess(ctx, user.ID, s.now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last access")
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, "login", email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login counter")
		}
	}

	return &ports.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         user,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	claims, err := ParseClaims(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, domain.ErrWrongTokenType
	}

	// The account may have been disabled since the token was issued.
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Activo {
		return nil, domain.ErrUserDisabled
	}

	access, err := s.generateToken(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &ports.RefreshResult{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.ErrWeakPassword
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashed := string(hash)
	_, err = s.users.Update(ctx, userID, ports.UserUpdate{PasswordHash: &hashed})
	return err
}

func (s *AuthService) generateToken(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":    user.ID,
		"email":  user.Email,
		"rol":    user.Rol,
		"nombre": user.Nombre,
		"type":   tokenType,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// TokenClaims is the validated payload of a signed token.
type TokenClaims struct {
	UserID string
	Email  string
	Rol    string
	Nombre string
	Type   string
}

// ParseClaims validates the signature and expiry of a token and extracts
// the identity claims. Tokens missing sub or email are rejected.
func ParseClaims(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, domain.ErrMalformedToken
	}

	rol, _ := claims["rol"].(string)
	nombre, _ := claims["nombre"].(string)
	tokenType, _ := claims["type"].(string)

	return &TokenClaims{
		UserID: sub,
		Email:  email,
		Rol:    rol,
		Nombre: nombre,
		Type:   tokenType,
	}, nil
}
