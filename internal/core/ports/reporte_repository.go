package ports

import "context"

// SerieMensual is one month's bucket in a time series.
type SerieMensual struct {
	Mes      string `json:"mes"`
	Cantidad int64  `json:"cantidad"`
}

// DashboardStats is the landing-page aggregate.
type DashboardStats struct {
	NNA                  map[string]int64 `json:"nna"`
	Intervenciones       map[string]int64 `json:"intervenciones"`
	Talleres             map[string]int64 `json:"talleres"`
	Usuarios             map[string]int64 `json:"usuarios"`
	IntervencionesPorMes []SerieMensual   `json:"intervenciones_por_mes"`
}

// TipoIntervencionResumen groups interventions by type.
type TipoIntervencionResumen struct {
	Tipo        string `json:"tipo"`
	Cantidad    int64  `json:"cantidad"`
	Completadas int64  `json:"completadas"`
	Pendientes  int64  `json:"pendientes"`
}

// AsistenciaTaller summarizes enrollment and attendance for one workshop.
type AsistenciaTaller struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	Fecha          string  `json:"fecha"`
	Capacidad      int     `json:"capacidad"`
	Inscritos      int     `json:"inscritos"`
	Asistentes     int     `json:"asistentes"`
	TasaAsistencia float64 `json:"tasa_asistencia"`
}

// ActividadItem is one entry in the recent-activity feed.
type ActividadItem struct {
	Tipo        string `json:"tipo"`
	Fecha       string `json:"fecha"`
	Descripcion string `json:"descripcion"`
	EntidadID   string `json:"entidad_id"`
	NNAID       string `json:"nna_id,omitempty"`
}

// FichaNNA heads the per-resident report.
type FichaNNA struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	RUT          string `json:"rut,omitempty"`
	Estado       string `json:"estado"`
	FechaIngreso string `json:"fecha_ingreso"`
}

// IntervencionResumen is one intervention row in the resident report.
type IntervencionResumen struct {
	ID        string `json:"id"`
	Fecha     string `json:"fecha"`
	Tipo      string `json:"tipo"`
	Motivo    string `json:"motivo"`
	Estado    string `json:"estado"`
	Prioridad string `json:"prioridad"`
}

// SeguimientoResumen is one follow-up row in the resident report; the
// general evaluation is truncated for listing.
type SeguimientoResumen struct {
	ID                string `json:"id"`
	Fecha             string `json:"fecha"`
	Tipo              string `json:"tipo"`
	EvaluacionGeneral string `json:"evaluacion_general"`
}

// TallerResumen is one workshop row in the resident report.
type TallerResumen struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Fecha  string `json:"fecha"`
	Estado string `json:"estado"`
}

// ReporteNNA is the complete per-resident report.
type ReporteNNA struct {
	NNA            FichaNNA              `json:"nna"`
	Resumen        map[string]int        `json:"resumen"`
	Intervenciones []IntervencionResumen `json:"intervenciones"`
	Seguimientos   []SeguimientoResumen  `json:"seguimientos"`
	Talleres       []TallerResumen       `json:"talleres"`
}

// ReporteRepository runs the cross-collection aggregation queries behind
// the reporting endpoints.
type ReporteRepository interface {
	Dashboard(ctx context.Context, hoy string) (*DashboardStats, error)
	ReporteNNA(ctx context.Context, nnaID string) (*ReporteNNA, error)
	IntervencionesPorTipo(ctx context.Context, desde, hasta string) ([]TipoIntervencionResumen, error)
	TalleresAsistencia(ctx context.Context, desde, hasta string) ([]AsistenciaTaller, error)
	ActividadReciente(ctx context.Context, limit int64) ([]ActividadItem, error)
}
