package domain

import "time"

// Workshop states.
const (
	TallerProgramado = "programado"
	TallerEnCurso    = "en_curso"
	TallerCompletado = "completado"
	TallerCancelado  = "cancelado"
)

// Participante is a resident enrolled in a workshop.
type Participante struct {
	NNAID         string `json:"nna_id" bson:"nna_id"`
	Asistencia    bool   `json:"asistencia" bson:"asistencia"`
	Evaluacion    string `json:"evaluacion,omitempty" bson:"evaluacion,omitempty"`
	Observaciones string `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
}

// Taller is a scheduled group activity with a capacity limit.
type Taller struct {
	ID              string         `json:"id" bson:"-"`
	Nombre          string         `json:"nombre" bson:"nombre"`
	Descripcion     string         `json:"descripcion,omitempty" bson:"descripcion,omitempty"`
	Fecha           string         `json:"fecha" bson:"fecha"`
	HoraInicio      string         `json:"hora_inicio" bson:"hora_inicio"`
	HoraTermino     string         `json:"hora_termino" bson:"hora_termino"`
	Ubicacion       string         `json:"ubicacion,omitempty" bson:"ubicacion,omitempty"`
	Objetivos       string         `json:"objetivos,omitempty" bson:"objetivos,omitempty"`
	Materiales      string         `json:"materiales,omitempty" bson:"materiales,omitempty"`
	ResponsableID   string         `json:"responsable_id" bson:"responsable_id"`
	Participantes   []Participante `json:"participantes" bson:"participantes"`
	CapacidadMaxima int            `json:"capacidad_maxima" bson:"capacidad_maxima"`
	Estado          string         `json:"estado" bson:"estado"`
	CreadoEn        time.Time      `json:"creado_en" bson:"creado_en"`
	ActualizadoEn   *time.Time     `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor       string         `json:"creado_por" bson:"creado_por"`
}

// TallerFilter narrows workshop listings.
type TallerFilter struct {
	Estado     string
	FechaDesde string
	FechaHasta string
	Skip       int64
	Limit      int64
}
