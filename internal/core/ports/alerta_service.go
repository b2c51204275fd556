package ports

import (
	"context"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// AlertaGenerator is the due-date rule engine. Both generators are
// idempotent: re-running against an unchanged data set creates nothing.
// They return the number of alerts created.
type AlertaGenerator interface {
	// GenerarVencimientos scans interventions with pending follow-up and
	// upcoming workshops inside a 7-day window.
	GenerarVencimientos(ctx context.Context, actor domain.Principal) (int, error)
	// GenerarVencimientosMedidas scans enforceable judicial measures
	// expiring inside a 30-day window.
	GenerarVencimientosMedidas(ctx context.Context, actor domain.Principal) (int, error)
	// AlertasVencimientoMedidas projects measures expiring within the
	// given number of days, ordered by days remaining. Read-only.
	AlertasVencimientoMedidas(ctx context.Context, diasAnticipacion int) ([]domain.VencimientoMedida, error)
}
