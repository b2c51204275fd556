package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// SeguimientoUpdate carries the mutable fields; nil means "leave as is".
type SeguimientoUpdate struct {
	Fecha               *string
	Tipo                *string
	AreaSalud           *string
	AreaEducativa       *string
	AreaSocial          *string
	AreaFamiliar        *string
	AreaEmocional       *string
	EvaluacionGeneral   *string
	Fortalezas          *string
	Dificultades        *string
	ObjetivosCortoPlazo *string
	ObjetivosMedioPlazo *string
	ObjetivosLargoPlazo *string
	Recomendaciones     *string
	Estado              *string
}

// SeguimientoRepository defines persistence for follow-up evaluations.
type SeguimientoRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Seguimiento, error)
	List(ctx context.Context, filter domain.SeguimientoFilter) ([]domain.Seguimiento, error)
	Create(ctx context.Context, s *domain.Seguimiento) (*domain.Seguimiento, error)
	Update(ctx context.Context, id string, update SeguimientoUpdate) (*domain.Seguimiento, error)
	Delete(ctx context.Context, id string) error
	DeleteByNNA(ctx context.Context, nnaID string) error
}
