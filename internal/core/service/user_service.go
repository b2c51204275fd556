package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// AdminSeed describes the root administrator account provisioned on
// startup. That account cannot be modified or removed by other users.
type AdminSeed struct {
	Email    string
	Password string
	Nombre   string
}

// UserService implements account management with root-admin protection.
type UserService struct {
	users ports.UserRepository
	admin AdminSeed
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users ports.UserRepository, admin AdminSeed, log zerolog.Logger) *UserService {
	return &UserService{users: users, admin: admin, log: log, now: time.Now}
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, actor domain.Principal, input ports.CreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(input.Rol) {
		return nil, domain.ErrForbidden
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		Nombre:       input.Nombre,
		Rol:          input.Rol,
		Activo:       input.Activo,
		PasswordHash: string(hash),
		CreadoEn:     s.now().UTC(),
	}
	return s.users.Create(ctx, user)
}

func (s *UserService) Update(ctx context.Context, actor domain.Principal, id string, input ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.Email == s.admin.Email && actor.Email != s.admin.Email {
		return nil, domain.ErrRootAdminReserved
	}
	if input.Rol != nil && !domain.ValidRole(*input.Rol) {
		return nil, domain.ErrForbidden
	}
	// The root administrator keeps its role and stays active.
	if target.Email == s.admin.Email {
		input.Rol = nil
		input.Activo = nil
	}

	update := ports.UserUpdate{
		Nombre: input.Nombre,
		Rol:    input.Rol,
		Activo: input.Activo,
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, domain.ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}
	return s.users.Update(ctx, id, update)
}

func (s *UserService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if id == actor.UserID {
		return domain.ErrSelfDeletion
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Email == s.admin.Email {
		return domain.ErrRootAdminReserved
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) ResetPassword(ctx context.Context, actor domain.Principal, id, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.ErrWeakPassword
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Email == s.admin.Email && actor.Email != s.admin.Email {
		return domain.ErrRootAdminReserved
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashed := string(hash)
	_, err = s.users.Update(ctx, id, ports.UserUpdate{PasswordHash: &hashed})
	return err
}

// EnsureAdmin provisions the root administrator when it does not exist
// yet. Without a configured password nothing is created.
func (s *UserService) EnsureAdmin(ctx context.Context) error {
	if s.admin.Password == "" {
		s.log.Warn().Msg("admin password not configured, skipping root account seed")
		return nil
	}

	_, err := s.users.FindByEmail(ctx, s.admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, &domain.User{
		Email:        s.admin.Email,
		Nombre:       s.admin.Nombre,
		Rol:          domain.RoleAdmin,
		Activo:       true,
		PasswordHash: string(hash),
		CreadoEn:     s.now().UTC(),
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("email", s.admin.Email).Msg("root administrator account created")
	return nil
}
