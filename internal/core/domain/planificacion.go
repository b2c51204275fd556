package domain

import "time"

// Annual-planning activity states.
const (
	ActividadPlanificada = "planificada"
	ActividadEnCurso     = "en_curso"
	ActividadRealizada   = "realizada"
	ActividadSuspendida  = "suspendida"
)

// Evidencia documents that a planned activity actually happened.
type Evidencia struct {
	Descripcion string    `json:"descripcion" bson:"descripcion"`
	URL         string    `json:"url,omitempty" bson:"url,omitempty"`
	RegistradoEn time.Time `json:"registrado_en" bson:"registrado_en"`
	RegistradoPor string   `json:"registrado_por" bson:"registrado_por"`
}

// Planificacion is an annual-planning activity, optionally tied to a
// commemorative day or a specific resident.
type Planificacion struct {
	ID            string      `json:"id" bson:"-"`
	Titulo        string      `json:"titulo" bson:"titulo"`
	Descripcion   string      `json:"descripcion,omitempty" bson:"descripcion,omitempty"`
	Tipo          string      `json:"tipo" bson:"tipo"`
	Categoria     string      `json:"categoria,omitempty" bson:"categoria,omitempty"`
	NNAID         string      `json:"nna_id,omitempty" bson:"nna_id,omitempty"`
	Anio          int         `json:"anio" bson:"anio"`
	FechaInicio   string      `json:"fecha_inicio" bson:"fecha_inicio"`
	FechaTermino  string      `json:"fecha_termino,omitempty" bson:"fecha_termino,omitempty"`
	ResponsableID string      `json:"responsable_id" bson:"responsable_id"`
	Participantes []string    `json:"participantes" bson:"participantes"`
	Estado        string      `json:"estado" bson:"estado"`
	Evidencias    []Evidencia `json:"evidencias" bson:"evidencias"`
	Observaciones string      `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoEn      time.Time   `json:"creado_en" bson:"creado_en"`
	ActualizadoEn *time.Time  `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor     string      `json:"creado_por" bson:"creado_por"`
}

// PlanificacionFilter narrows planning listings.
type PlanificacionFilter struct {
	NNAID     string
	Tipo      string
	Categoria string
	Estado    string
	Anio      int
	Skip      int64
	Limit     int64
}

// PlanificacionStats aggregates planning counts.
type PlanificacionStats struct {
	Total       int64            `json:"total"`
	PorEstado   map[string]int64 `json:"por_estado"`
	PorTipo     map[string]int64 `json:"por_tipo"`
	PorCategoria map[string]int64 `json:"por_categoria"`
}

// DiaConmemorativo is a fixed calendar entry offered as a planning aid.
type DiaConmemorativo struct {
	Fecha  string `json:"fecha"` // MM-DD
	Nombre string `json:"nombre"`
}

// DiasConmemorativos is the predefined catalog served verbatim.
var DiasConmemorativos = []DiaConmemorativo{
	{Fecha: "04-30", Nombre: "Día del Niño y la Niña (convivencia)"},
	{Fecha: "05-15", Nombre: "Día Internacional de la Familia"},
	{Fecha: "06-12", Nombre: "Día Mundial contra el Trabajo Infantil"},
	{Fecha: "08-08", Nombre: "Día del Niño (Chile)"},
	{Fecha: "09-18", Nombre: "Fiestas Patrias"},
	{Fecha: "11-20", Nombre: "Día Internacional de los Derechos del Niño"},
	{Fecha: "12-25", Nombre: "Navidad"},
}
