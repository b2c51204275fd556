package domain

import "time"

// Reliability levels assigned when a support-network member is evaluated.
const (
	ConfiabilidadAlto       = "alto"
	ConfiabilidadMedio      = "medio"
	ConfiabilidadBajo       = "bajo"
	ConfiabilidadNoEvaluado = "no_evaluado"
)

// NivelConfiabilidadValido reports membership in the closed level set.
func NivelConfiabilidadValido(nivel string) bool {
	switch nivel {
	case ConfiabilidadAlto, ConfiabilidadMedio, ConfiabilidadBajo, ConfiabilidadNoEvaluado:
		return true
	}
	return false
}

// RedApoyo is a support-network contact for a resident. EsPPF marks a
// family protection program designation.
type RedApoyo struct {
	ID                  string     `json:"id" bson:"-"`
	NNAID               string     `json:"nna_id" bson:"nna_id"`
	Nombre              string     `json:"nombre" bson:"nombre"`
	RUT                 string     `json:"rut,omitempty" bson:"rut,omitempty"`
	TipoVinculo         string     `json:"tipo_vinculo" bson:"tipo_vinculo"`
	Telefono            string     `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Email               string     `json:"email,omitempty" bson:"email,omitempty"`
	Direccion           string     `json:"direccion,omitempty" bson:"direccion,omitempty"`
	EsCuidadorTemporal  bool       `json:"es_cuidador_temporal" bson:"es_cuidador_temporal"`
	EsPPF               bool       `json:"es_ppf" bson:"es_ppf"`
	EsContactoEmergencia bool      `json:"es_contacto_emergencia" bson:"es_contacto_emergencia"`
	NivelConfiabilidad  string     `json:"nivel_confiabilidad" bson:"nivel_confiabilidad"`
	EvaluacionConfiabilidad string `json:"evaluacion_confiabilidad,omitempty" bson:"evaluacion_confiabilidad,omitempty"`
	FechaUltimaEvaluacion string   `json:"fecha_ultima_evaluacion,omitempty" bson:"fecha_ultima_evaluacion,omitempty"`
	EvaluadoPor         string     `json:"evaluado_por,omitempty" bson:"evaluado_por,omitempty"`
	Estado              string     `json:"estado" bson:"estado"`
	Observaciones       string     `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoEn            time.Time  `json:"creado_en" bson:"creado_en"`
	ActualizadoEn       *time.Time `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor           string     `json:"creado_por" bson:"creado_por"`
}

// RedApoyoFilter narrows support-network listings.
type RedApoyoFilter struct {
	NNAID              string
	TipoVinculo        string
	Estado             string
	NivelConfiabilidad string
	SoloCuidadores     bool
	SoloPPF            bool
	Skip               int64
	Limit              int64
}

// RedApoyoStats aggregates support-network counts.
type RedApoyoStats struct {
	Total               int64            `json:"total"`
	CuidadoresTemporales int64           `json:"cuidadores_temporales"`
	PPF                 int64            `json:"ppf"`
	ContactosEmergencia int64            `json:"contactos_emergencia"`
	PorTipoVinculo      map[string]int64 `json:"por_tipo_vinculo"`
	PorConfiabilidad    map[string]int64 `json:"por_confiabilidad"`
}
