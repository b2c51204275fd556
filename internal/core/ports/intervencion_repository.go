package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// IntervencionUpdate carries the mutable fields; nil means "leave as is".
type IntervencionUpdate struct {
	Fecha                   *string
	Tipo                    *string
	Motivo                  *string
	Descripcion             *string
	Resultados              *string
	Derivacion              *string
	Estado                  *string
	Prioridad               *string
	FechaProximoSeguimiento *string
	ActualizadoPor          string
}

// IntervencionRepository defines persistence for interventions.
type IntervencionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Intervencion, error)
	List(ctx context.Context, filter domain.IntervencionFilter) ([]domain.Intervencion, error)
	Create(ctx context.Context, i *domain.Intervencion) (*domain.Intervencion, error)
	Update(ctx context.Context, id string, update IntervencionUpdate) (*domain.Intervencion, error)
	Delete(ctx context.Context, id string) error
	DeleteByNNA(ctx context.Context, nnaID string) error
	Stats(ctx context.Context) (map[string]any, error)
	// ConSeguimientoPendiente returns pending/in-progress interventions
	// whose next follow-up date falls in [desde, hasta].
	ConSeguimientoPendiente(ctx context.Context, desde, hasta string) ([]domain.Intervencion, error)
}
