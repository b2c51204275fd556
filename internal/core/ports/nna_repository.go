package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// NNAUpdate carries the mutable resident fields; nil means "leave as is".
type NNAUpdate struct {
	Nombre          *string
	Apellido        *string
	RUT             *string
	FechaNacimiento *string
	Edad            *int
	Genero          *string
	FechaEgreso     *string
	Estado          *string
	Telefono        *string
	Direccion       *string
	Comuna          *string
	Region          *string
	ContactoEmergencia *domain.Contacto
	Alergias        *string
	Medicamentos    *string
	CondicionesMedicas *string
	EstablecimientoEducacional *string
	Curso           *string
	Observaciones   *string
}

// NNARepository defines persistence for residents.
type NNARepository interface {
	FindByID(ctx context.Context, id string) (*domain.NNA, error)
	FindByRUT(ctx context.Context, rut string) (*domain.NNA, error)
	List(ctx context.Context, filter domain.NNAFilter) ([]domain.NNA, error)
	Create(ctx context.Context, nna *domain.NNA) (*domain.NNA, error)
	Update(ctx context.Context, id string, update NNAUpdate) (*domain.NNA, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.NNAStats, error)
}
