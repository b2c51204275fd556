package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted when provisioning an account.
type CreateUserInput struct {
	Email    string
	Nombre   string
	Rol      string
	Activo   bool
	Password string
}

// UpdateUserInput mirrors UserUpdate at the service boundary, with the
// plaintext password still unhashed.
type UpdateUserInput struct {
	Nombre   *string
	Rol      *string
	Activo   *bool
	Password *string
}

type UserService interface {
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, actor domain.Principal, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Principal, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	ResetPassword(ctx context.Context, actor domain.Principal, id, newPassword string) error
	EnsureAdmin(ctx context.Context) error
}
