package ports

import (
	"context"
	"time"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// UserUpdate carries the mutable account fields; nil means "leave as is".
type UserUpdate struct {
	Nombre       *string
	Rol          *string
	Activo       *bool
	PasswordHash *string
}

// UserRepository defines persistence for system accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	UpdateLastAccess(ctx context.Context, id string, at time.Time) error
}
