package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// TallerUpdate carries the mutable fields; nil means "leave as is".
type TallerUpdate struct {
	Nombre          *string
	Descripcion     *string
	Fecha           *string
	HoraInicio      *string
	HoraTermino     *string
	Ubicacion       *string
	Objetivos       *string
	Materiales      *string
	ResponsableID   *string
	CapacidadMaxima *int
	Estado          *string
}

// TallerRepository defines persistence for workshops.
type TallerRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Taller, error)
	List(ctx context.Context, filter domain.TallerFilter) ([]domain.Taller, error)
	ListByParticipante(ctx context.Context, nnaID string) ([]domain.Taller, error)
	Create(ctx context.Context, t *domain.Taller) (*domain.Taller, error)
	Update(ctx context.Context, id string, update TallerUpdate) (*domain.Taller, error)
	Delete(ctx context.Context, id string) error
	AddParticipante(ctx context.Context, tallerID string, p domain.Participante) error
	RemoveParticipante(ctx context.Context, tallerID, nnaID string) error
	RemoveParticipanteTodos(ctx context.Context, nnaID string) error
	Stats(ctx context.Context) (map[string]any, error)
	// Proximos returns scheduled workshops with a date in [desde, hasta].
	Proximos(ctx context.Context, desde, hasta string) ([]domain.Taller, error)
}
