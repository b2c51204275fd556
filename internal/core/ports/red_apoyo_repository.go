package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// RedApoyoUpdate carries the mutable fields; nil means "leave as is".
type RedApoyoUpdate struct {
	Nombre              *string
	RUT                 *string
	TipoVinculo         *string
	Telefono            *string
	Email               *string
	Direccion           *string
	EsCuidadorTemporal  *bool
	EsPPF               *bool
	EsContactoEmergencia *bool
	Estado              *string
	Observaciones       *string
}

// Evaluacion records a reliability assessment by a coordinator.
type Evaluacion struct {
	Nivel      string
	Comentario string
	Fecha      string
	EvaluadoPor string
}

// RedApoyoRepository defines persistence for support-network contacts.
type RedApoyoRepository interface {
	FindByID(ctx context.Context, id string) (*domain.RedApoyo, error)
	List(ctx context.Context, filter domain.RedApoyoFilter) ([]domain.RedApoyo, error)
	ListByNNA(ctx context.Context, nnaID string) ([]domain.RedApoyo, error)
	Create(ctx context.Context, r *domain.RedApoyo) (*domain.RedApoyo, error)
	Update(ctx context.Context, id string, update RedApoyoUpdate) (*domain.RedApoyo, error)
	Delete(ctx context.Context, id string) error
	Evaluar(ctx context.Context, id string, ev Evaluacion) error
	Stats(ctx context.Context) (*domain.RedApoyoStats, error)
}
