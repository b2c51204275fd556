package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

var testAdmin = AdminSeed{
	Email:    "admin@residencia.cl",
	Password: "clave-admin-123",
	Nombre:   "Administrador",
}

func TestUserService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, testAdmin, zerolog.Nop())

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	admin, err := repo.FindByEmail(context.Background(), testAdmin.Email)
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Rol != domain.RoleAdmin || !admin.Activo {
		t.Fatalf("unexpected admin account: rol=%s activo=%v", admin.Rol, admin.Activo)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(testAdmin.Password)) != nil {
		t.Fatalf("admin password not stored as matching hash")
	}

	// Second run is a no-op.
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("second EnsureAdmin returned error: %v", err)
	}
	users, _ := repo.List(context.Background(), domain.UserFilter{})
	if len(users) != 1 {
		t.Fatalf("expected 1 user after repeated seed, got %d", len(users))
	}
}

func TestUserService_EnsureAdmin_NoPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, AdminSeed{Email: "admin@residencia.cl"}, zerolog.Nop())

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	users, _ := repo.List(context.Background(), domain.UserFilter{})
	if len(users) != 0 {
		t.Fatalf("expected no account without configured password, got %d", len(users))
	}
}

func TestUserService_Create(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, testAdmin, zerolog.Nop())
	actor := domain.Principal{UserID: "1", Email: testAdmin.Email, Rol: domain.RoleAdmin}

	u, err := svc.Create(context.Background(), actor, ports.CreateUserInput{
		Email:    "nuevo@residencia.cl",
		Nombre:   "Nuevo Técnico",
		Rol:      domain.RoleTecnico,
		Activo:   true,
		Password: "clave1234",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if u.PasswordHash == "clave1234" {
		t.Fatalf("password stored in plaintext")
	}

	if _, err := svc.Create(context.Background(), actor, ports.CreateUserInput{
		Email: "otro@residencia.cl", Nombre: "X", Rol: "superusuario", Password: "clave1234",
	}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for unknown role, got %v", err)
	}
	if _, err := svc.Create(context.Background(), actor, ports.CreateUserInput{
		Email: "otro@residencia.cl", Nombre: "X", Rol: domain.RoleViewer, Password: "corta",
	}); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := svc.Create(context.Background(), actor, ports.CreateUserInput{
		Email: "nuevo@residencia.cl", Nombre: "Duplicado", Rol: domain.RoleViewer, Password: "clave1234",
	}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_RootAdminProtected(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, testAdmin, zerolog.Nop())
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, _ := repo.FindByEmail(context.Background(), testAdmin.Email)
	otherAdmin := seedUser(t, repo, "otro-admin@residencia.cl", "clave1234", domain.RoleAdmin, true)
	otherActor := domain.Principal{UserID: otherAdmin.ID, Email: otherAdmin.Email, Rol: domain.RoleAdmin}

	nombre := "Hackeado"
	if _, err := svc.Update(context.Background(), otherActor, admin.ID, ports.UpdateUserInput{Nombre: &nombre}); err != domain.ErrRootAdminReserved {
		t.Fatalf("expected ErrRootAdminReserved on update by other admin, got %v", err)
	}
	if err := svc.Delete(context.Background(), otherActor, admin.ID); err != domain.ErrRootAdminReserved {
		t.Fatalf("expected ErrRootAdminReserved on delete, got %v", err)
	}
	if err := svc.ResetPassword(context.Background(), otherActor, admin.ID, "nueva1234"); err != domain.ErrRootAdminReserved {
		t.Fatalf("expected ErrRootAdminReserved on password reset, got %v", err)
	}

	// The root admin may edit itself, but never loses role or activity.
	rootActor := domain.Principal{UserID: admin.ID, Email: admin.Email, Rol: domain.RoleAdmin}
	rolViewer := domain.RoleViewer
	inactivo := false
	updated, err := svc.Update(context.Background(), rootActor, admin.ID, ports.UpdateUserInput{
		Nombre: &nombre, Rol: &rolViewer, Activo: &inactivo,
	})
	if err != nil {
		t.Fatalf("self update returned error: %v", err)
	}
	if updated.Nombre != nombre {
		t.Fatalf("name not updated: %s", updated.Nombre)
	}
	if updated.Rol != domain.RoleAdmin || !updated.Activo {
		t.Fatalf("root admin lost role or activity: rol=%s activo=%v", updated.Rol, updated.Activo)
	}
}

func TestUserService_Delete_Self(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, testAdmin, zerolog.Nop())
	u := seedUser(t, repo, "coordinador@residencia.cl", "clave1234", domain.RoleCoordinador, true)
	actor := domain.Principal{UserID: u.ID, Email: u.Email, Rol: domain.RoleAdmin}

	if err := svc.Delete(context.Background(), actor, u.ID); err != domain.ErrSelfDeletion {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}
