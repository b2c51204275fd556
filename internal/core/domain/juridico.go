package domain

import "time"

// Judicial measure states. Vigente and dictada count as enforceable for
// expiry scans.
const (
	MedidaEnTramite = "en_tramite"
	MedidaDictada   = "dictada"
	MedidaVigente   = "vigente"
	MedidaVencida   = "vencida"
	MedidaCerrada   = "cerrada"

	RestriccionActiva   = "activa"
	RestriccionVencida  = "vencida"
	RestriccionLevantada = "levantada"
)

// EstadosMedidaVigentes are the states scanned by the expiry rule.
var EstadosMedidaVigentes = []string{MedidaVigente, MedidaDictada}

// Audiencia is a court hearing attached to a measure.
type Audiencia struct {
	Fecha         string `json:"fecha" bson:"fecha"`
	Hora          string `json:"hora,omitempty" bson:"hora,omitempty"`
	Tribunal      string `json:"tribunal,omitempty" bson:"tribunal,omitempty"`
	TipoAudiencia string `json:"tipo_audiencia,omitempty" bson:"tipo_audiencia,omitempty"`
	Resultado     string `json:"resultado,omitempty" bson:"resultado,omitempty"`
	Observaciones string `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
}

// MedidaJudicial is a protection measure issued for a resident.
type MedidaJudicial struct {
	ID                        string      `json:"id" bson:"-"`
	NNAID                     string      `json:"nna_id" bson:"nna_id"`
	NumeroIngreso             string      `json:"numero_ingreso,omitempty" bson:"numero_ingreso,omitempty"`
	FechaSolicitud            string      `json:"fecha_solicitud" bson:"fecha_solicitud"`
	TipoSolicitud             string      `json:"tipo_solicitud" bson:"tipo_solicitud"`
	Solicitante               string      `json:"solicitante,omitempty" bson:"solicitante,omitempty"`
	RolSolicitante            string      `json:"rol_solicitante,omitempty" bson:"rol_solicitante,omitempty"`
	Audiencias                []Audiencia `json:"audiencias" bson:"audiencias"`
	FechaResolucion           string      `json:"fecha_resolucion,omitempty" bson:"fecha_resolucion,omitempty"`
	NumeroResolucion          string      `json:"numero_resolucion,omitempty" bson:"numero_resolucion,omitempty"`
	TipoMedida                string      `json:"tipo_medida,omitempty" bson:"tipo_medida,omitempty"`
	FechaInicio               string      `json:"fecha_inicio,omitempty" bson:"fecha_inicio,omitempty"`
	FechaTermino              string      `json:"fecha_termino,omitempty" bson:"fecha_termino,omitempty"`
	PlazoMeses                int         `json:"plazo_meses,omitempty" bson:"plazo_meses,omitempty"`
	Estado                    string      `json:"estado" bson:"estado"`
	RestriccionContacto       bool        `json:"restriccion_contacto" bson:"restriccion_contacto"`
	RestriccionAcercamiento   bool        `json:"restriccion_acercamiento" bson:"restriccion_acercamiento"`
	RestriccionSalidaTerritorio bool      `json:"restriccion_salida_territorio" bson:"restriccion_salida_territorio"`
	OtrasRestricciones        string      `json:"otras_restricciones,omitempty" bson:"otras_restricciones,omitempty"`
	MedidasComplementarias    []string    `json:"medidas_complementarias" bson:"medidas_complementarias"`
	Observaciones             string      `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	RequiereSeguimiento       bool        `json:"requiere_seguimiento" bson:"requiere_seguimiento"`
	FrecuenciaSeguimiento     string      `json:"frecuencia_seguimiento,omitempty" bson:"frecuencia_seguimiento,omitempty"`
	AlertaDiasAnticipacion    int         `json:"alerta_dias_anticipacion" bson:"alerta_dias_anticipacion"`
	CreadoEn                  time.Time   `json:"creado_en" bson:"creado_en"`
	ActualizadoEn             *time.Time  `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor                 string      `json:"creado_por" bson:"creado_por"`
}

// Restriccion is a judicially ordered contact restriction.
type Restriccion struct {
	ID                      string     `json:"id" bson:"-"`
	NNAID                   string     `json:"nna_id" bson:"nna_id"`
	MedidaID                string     `json:"medida_id,omitempty" bson:"medida_id,omitempty"`
	Tipo                    string     `json:"tipo" bson:"tipo"`
	Descripcion             string     `json:"descripcion" bson:"descripcion"`
	PersonaRestringidaNombre string    `json:"persona_restringida_nombre,omitempty" bson:"persona_restringida_nombre,omitempty"`
	PersonaRestringidaRUT   string     `json:"persona_restringida_rut,omitempty" bson:"persona_restringida_rut,omitempty"`
	RelacionConNNA          string     `json:"relacion_con_nna,omitempty" bson:"relacion_con_nna,omitempty"`
	FechaInicio             string     `json:"fecha_inicio" bson:"fecha_inicio"`
	FechaTermino            string     `json:"fecha_termino,omitempty" bson:"fecha_termino,omitempty"`
	Indefinida              bool       `json:"indefinida" bson:"indefinida"`
	Estado                  string     `json:"estado" bson:"estado"`
	Motivo                  string     `json:"motivo,omitempty" bson:"motivo,omitempty"`
	Observaciones           string     `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoEn                time.Time  `json:"creado_en" bson:"creado_en"`
	ActualizadoEn           *time.Time `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor               string     `json:"creado_por" bson:"creado_por"`
}

// MedidaFilter narrows measure listings.
type MedidaFilter struct {
	NNAID         string
	Estado        string
	TipoSolicitud string
	TipoMedida    string
	ProximasVencer bool
	Vencidas      bool
	Skip          int64
	Limit         int64
}

// RestriccionFilter narrows restriction listings.
type RestriccionFilter struct {
	NNAID  string
	Estado string
	Tipo   string
	Skip   int64
	Limit  int64
}

// JuridicoStats aggregates counts for the legal module.
type JuridicoStats struct {
	TotalMedidas        int64            `json:"total_medidas"`
	PorEstado           map[string]int64 `json:"por_estado"`
	PorTipoSolicitud    map[string]int64 `json:"por_tipo_solicitud"`
	PorTipoMedida       map[string]int64 `json:"por_tipo_medida"`
	Vigentes            int64            `json:"vigentes"`
	ConRestricciones    int64            `json:"con_restricciones"`
	ProximasAVencer     int64            `json:"proximas_a_vencer"`
	Vencidas            int64            `json:"vencidas"`
	TotalRestricciones  int64            `json:"total_restricciones"`
	RestriccionesActivas int64           `json:"restricciones_activas"`
}

// VencimientoMedida is the projection returned by the expiry listing:
// a measure close to its end date, with days remaining and a display
// priority (alta <= 7 days, media <= 15, baja otherwise).
type VencimientoMedida struct {
	MedidaID         string `json:"medida_id"`
	NNAID            string `json:"nna_id"`
	NNANombre        string `json:"nna_nombre"`
	TipoMedida       string `json:"tipo_medida"`
	FechaVencimiento string `json:"fecha_vencimiento"`
	DiasRestantes    int    `json:"dias_restantes"`
	Prioridad        string `json:"prioridad"`
}

// PrioridadListadoVencimiento maps days remaining to the display priority
// used by the expiry listing (not the generated alerts).
func PrioridadListadoVencimiento(diasRestantes int) string {
	switch {
	case diasRestantes <= 7:
		return PrioridadAlta
	case diasRestantes <= 15:
		return PrioridadMedia
	default:
		return PrioridadBaja
	}
}
