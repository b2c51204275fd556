package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// MedidaUpdate carries the mutable fields; nil means "leave as is".
type MedidaUpdate struct {
	NumeroIngreso             *string
	FechaSolicitud            *string
	TipoSolicitud             *string
	Solicitante               *string
	RolSolicitante            *string
	FechaResolucion           *string
	NumeroResolucion          *string
	TipoMedida                *string
	FechaInicio               *string
	FechaTermino              *string
	PlazoMeses                *int
	Estado                    *string
	RestriccionContacto       *bool
	RestriccionAcercamiento   *bool
	RestriccionSalidaTerritorio *bool
	OtrasRestricciones        *string
	MedidasComplementarias    []string
	Observaciones             *string
	RequiereSeguimiento       *bool
	FrecuenciaSeguimiento     *string
	AlertaDiasAnticipacion    *int
}

// MedidaRepository defines persistence for judicial measures.
type MedidaRepository interface {
	FindByID(ctx context.Context, id string) (*domain.MedidaJudicial, error)
	List(ctx context.Context, filter domain.MedidaFilter) ([]domain.MedidaJudicial, error)
	Create(ctx context.Context, m *domain.MedidaJudicial) (*domain.MedidaJudicial, error)
	Update(ctx context.Context, id string, update MedidaUpdate) (*domain.MedidaJudicial, error)
	AddAudiencia(ctx context.Context, id string, a domain.Audiencia) error
	Stats(ctx context.Context, hoy, limite string) (*domain.JuridicoStats, error)
	// ProximasAVencer returns enforceable measures whose end date falls
	// in [desde, hasta].
	ProximasAVencer(ctx context.Context, desde, hasta string) ([]domain.MedidaJudicial, error)
}

// RestriccionRepository defines persistence for judicial restrictions.
type RestriccionRepository interface {
	List(ctx context.Context, filter domain.RestriccionFilter) ([]domain.Restriccion, error)
	Create(ctx context.Context, r *domain.Restriccion) (*domain.Restriccion, error)
}
