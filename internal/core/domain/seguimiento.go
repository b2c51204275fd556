package domain

import "time"

// Follow-up states.
const (
	SeguimientoPendiente  = "pendiente"
	SeguimientoEnProceso  = "en_proceso"
	SeguimientoCompletado = "completado"
)

// Seguimiento is a periodic multi-area evaluation of a resident.
type Seguimiento struct {
	ID                 string     `json:"id" bson:"-"`
	NNAID              string     `json:"nna_id" bson:"nna_id"`
	Fecha              string     `json:"fecha" bson:"fecha"`
	Tipo               string     `json:"tipo" bson:"tipo"`
	AreaSalud          string     `json:"area_salud,omitempty" bson:"area_salud,omitempty"`
	AreaEducativa      string     `json:"area_educativa,omitempty" bson:"area_educativa,omitempty"`
	AreaSocial         string     `json:"area_social,omitempty" bson:"area_social,omitempty"`
	AreaFamiliar       string     `json:"area_familiar,omitempty" bson:"area_familiar,omitempty"`
	AreaEmocional      string     `json:"area_emocional,omitempty" bson:"area_emocional,omitempty"`
	EvaluacionGeneral  string     `json:"evaluacion_general" bson:"evaluacion_general"`
	Fortalezas         string     `json:"fortalezas,omitempty" bson:"fortalezas,omitempty"`
	Dificultades       string     `json:"dificultades,omitempty" bson:"dificultades,omitempty"`
	ObjetivosCortoPlazo string    `json:"objetivos_corto_plazo,omitempty" bson:"objetivos_corto_plazo,omitempty"`
	ObjetivosMedioPlazo string    `json:"objetivos_medio_plazo,omitempty" bson:"objetivos_medio_plazo,omitempty"`
	ObjetivosLargoPlazo string    `json:"objetivos_largo_plazo,omitempty" bson:"objetivos_largo_plazo,omitempty"`
	Recomendaciones    string     `json:"recomendaciones,omitempty" bson:"recomendaciones,omitempty"`
	Estado             string     `json:"estado" bson:"estado"`
	CreadoEn           time.Time  `json:"creado_en" bson:"creado_en"`
	ActualizadoEn      *time.Time `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor          string     `json:"creado_por" bson:"creado_por"`
}

// SeguimientoFilter narrows follow-up listings.
type SeguimientoFilter struct {
	NNAID  string
	Tipo   string
	Estado string
	Skip   int64
	Limit  int64
}
