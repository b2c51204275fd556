package domain

import "time"

// Intervention states and priorities.
const (
	IntervencionPendiente  = "pendiente"
	IntervencionEnProceso  = "en_proceso"
	IntervencionCompletada = "completada"
	IntervencionCancelada  = "cancelada"

	PrioridadUrgente = "urgente"
)

// Intervencion records a professional action taken for a resident.
type Intervencion struct {
	ID                      string     `json:"id" bson:"-"`
	NNAID                   string     `json:"nna_id" bson:"nna_id"`
	Fecha                   string     `json:"fecha" bson:"fecha"`
	Tipo                    string     `json:"tipo" bson:"tipo"`
	Motivo                  string     `json:"motivo" bson:"motivo"`
	Descripcion             string     `json:"descripcion" bson:"descripcion"`
	Resultados              string     `json:"resultados,omitempty" bson:"resultados,omitempty"`
	Derivacion              string     `json:"derivacion,omitempty" bson:"derivacion,omitempty"`
	Estado                  string     `json:"estado" bson:"estado"`
	Prioridad               string     `json:"prioridad" bson:"prioridad"`
	FechaProximoSeguimiento string     `json:"fecha_proximo_seguimiento,omitempty" bson:"fecha_proximo_seguimiento,omitempty"`
	CreadoEn                time.Time  `json:"creado_en" bson:"creado_en"`
	ActualizadoEn           *time.Time `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor               string     `json:"creado_por" bson:"creado_por"`
	ActualizadoPor          string     `json:"actualizado_por,omitempty" bson:"actualizado_por,omitempty"`
}

// IntervencionFilter narrows intervention listings.
type IntervencionFilter struct {
	NNAID      string
	Tipo       string
	Estado     string
	Prioridad  string
	FechaDesde string
	FechaHasta string
	Skip       int64
	Limit      int64
}
