package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// PlanificacionUpdate carries the mutable fields; nil means "leave as is".
type PlanificacionUpdate struct {
	Titulo        *string
	Descripcion   *string
	Tipo          *string
	Categoria     *string
	Anio          *int
	FechaInicio   *string
	FechaTermino  *string
	ResponsableID *string
	Estado        *string
	Observaciones *string
}

// PlanificacionRepository defines persistence for annual-planning
// activities.
type PlanificacionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Planificacion, error)
	List(ctx context.Context, filter domain.PlanificacionFilter) ([]domain.Planificacion, error)
	Create(ctx context.Context, p *domain.Planificacion) (*domain.Planificacion, error)
	Update(ctx context.Context, id string, update PlanificacionUpdate) (*domain.Planificacion, error)
	Delete(ctx context.Context, id string) error
	CambiarEstado(ctx context.Context, id, estado string) error
	AddParticipante(ctx context.Context, id, nnaID string) error
	AddEvidencia(ctx context.Context, id string, ev domain.Evidencia) error
	Stats(ctx context.Context) (*domain.PlanificacionStats, error)
	// Proximas returns activities starting in [desde, hasta].
	Proximas(ctx context.Context, desde, hasta string) ([]domain.Planificacion, error)
}
