package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// LoginResult is the token pair issued on successful authentication.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	User         *domain.User
}

// RefreshResult carries the replacement access token.
type RefreshResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
