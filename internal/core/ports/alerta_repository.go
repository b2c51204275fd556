package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// AlertaUpdate carries the mutable alert fields; nil means "leave as is".
type AlertaUpdate struct {
	Titulo            *string
	Mensaje           *string
	Prioridad         *string
	FechaVencimiento  *string
	FechaRecordatorio *string
	Estado            *string
	AsignadoA         *string
}

// AlertaRepository defines persistence for alerts. Create must surface
// domain.ErrAlertaExists when the store's partial unique index rejects a
// second open alert for the same (entidad_tipo, entidad_id, tipo).
type AlertaRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Alerta, error)
	List(ctx context.Context, filter domain.AlertaFilter) ([]domain.Alerta, error)
	MisAlertas(ctx context.Context, userID string, limit int64) ([]domain.Alerta, error)
	Create(ctx context.Context, alerta *domain.Alerta) (*domain.Alerta, error)
	Update(ctx context.Context, id string, update AlertaUpdate) (*domain.Alerta, error)
	Delete(ctx context.Context, id string) error
	Resolver(ctx context.Context, id, userID, comentario string) error
	Asignar(ctx context.Context, id, usuarioID string) error
	Stats(ctx context.Context, hoy string) (*domain.AlertaStats, error)
	// FindAbierta looks up an open (activa/en_proceso) alert for the
	// given subject key and category; the dedupe check of the rule engine.
	FindAbierta(ctx context.Context, entidadTipo, entidadID, tipo string) (*domain.Alerta, error)
}
