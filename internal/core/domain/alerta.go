package domain

import "time"

// Alert lifecycle states. Active and in-progress alerts count as "open"
// for deduplication and statistics.
const (
	AlertaActiva     = "activa"
	AlertaEnProceso  = "en_proceso"
	AlertaResuelta   = "resuelta"
	AlertaDescartada = "descartada"
)

// Alert categories emitted by the rule engine or created manually.
const (
	AlertaVencimientoPlazo     = "vencimiento_plazo"
	AlertaAudienciaProxima     = "audiencia_proxima"
	AlertaRevisionMedida       = "revision_medida"
	AlertaSeguimientoPendiente = "seguimiento_pendiente"
	AlertaRiesgoAlto           = "riesgo_alto"
	AlertaRestriccionActiva    = "restriccion_activa"
	AlertaTallerProximo        = "taller_proximo"
	AlertaDocumentoFaltante    = "documento_faltante"
	AlertaIntervencionUrgente  = "intervencion_urgente"
	AlertaSistema              = "sistema"
	AlertaOtra                 = "otra"
)

// Priorities, lowest to highest.
const (
	PrioridadBaja    = "baja"
	PrioridadMedia   = "media"
	PrioridadAlta    = "alta"
	PrioridadCritica = "critica"
)

// EstadosAbiertos are the states in which an alert is still actionable.
var EstadosAbiertos = []string{AlertaActiva, AlertaEnProceso}

// Alerta is a due-date-driven notification record, distinct from the
// source entity it references through (EntidadTipo, EntidadID).
type Alerta struct {
	ID                string     `json:"id" bson:"-"`
	NNAID             string     `json:"nna_id,omitempty" bson:"nna_id,omitempty"`
	UsuarioID         string     `json:"usuario_id,omitempty" bson:"usuario_id,omitempty"`
	Titulo            string     `json:"titulo" bson:"titulo"`
	Mensaje           string     `json:"mensaje" bson:"mensaje"`
	Tipo              string     `json:"tipo" bson:"tipo"`
	Prioridad         string     `json:"prioridad" bson:"prioridad"`
	FechaVencimiento  string     `json:"fecha_vencimiento,omitempty" bson:"fecha_vencimiento,omitempty"`
	FechaRecordatorio string     `json:"fecha_recordatorio,omitempty" bson:"fecha_recordatorio,omitempty"`
	Estado            string     `json:"estado" bson:"estado"`
	EntidadTipo       string     `json:"entidad_tipo,omitempty" bson:"entidad_tipo,omitempty"`
	EntidadID         string     `json:"entidad_id,omitempty" bson:"entidad_id,omitempty"`
	URLRedirect       string     `json:"url_redirect,omitempty" bson:"url_redirect,omitempty"`
	AsignadoA         string     `json:"asignado_a,omitempty" bson:"asignado_a,omitempty"`
	CreadoEn          time.Time  `json:"creado_en" bson:"creado_en"`
	ActualizadoEn     *time.Time `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	ResueltaEn        *time.Time `json:"resuelta_en,omitempty" bson:"resuelta_en,omitempty"`
	ResueltaPor       string     `json:"resuelta_por,omitempty" bson:"resuelta_por,omitempty"`
	ComentarioResolucion string  `json:"comentario_resolucion,omitempty" bson:"comentario_resolucion,omitempty"`
	CreadoPor         string     `json:"creado_por" bson:"creado_por"`
}

// AlertaFilter narrows alert listings.
type AlertaFilter struct {
	NNAID       string
	Tipo        string
	Prioridad   string
	Estado      string
	AsignadoA   string
	SoloActivas bool
	Vencidas    bool
	// TecnicoID scopes results to alerts the technician owns, created,
	// or that are unassigned.
	TecnicoID string
	Skip      int64
	Limit     int64
}

// AlertaStats aggregates open-alert counts.
type AlertaStats struct {
	Total        int64            `json:"total"`
	Activas      int64            `json:"activas"`
	Criticas     int64            `json:"criticas"`
	Vencidas     int64            `json:"vencidas"`
	PorTipo      map[string]int64 `json:"por_tipo"`
	PorPrioridad map[string]int64 `json:"por_prioridad"`
}

// PrioridadVencimientoMedida maps days remaining before a judicial
// measure expires to the priority of the generated alert.
func PrioridadVencimientoMedida(diasRestantes int) string {
	switch {
	case diasRestantes <= 7:
		return PrioridadCritica
	case diasRestantes <= 15:
		return PrioridadAlta
	default:
		return PrioridadMedia
	}
}

// PrioridadSeguimiento maps an intervention's own priority to the alert
// priority for a pending follow-up.
func PrioridadSeguimiento(prioridadIntervencion string) string {
	if prioridadIntervencion == PrioridadUrgente {
		return PrioridadAlta
	}
	return PrioridadMedia
}
