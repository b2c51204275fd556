package domain

import "time"

// NNA lifecycle states within the residence.
const (
	NNAActivo     = "activo"
	NNAEgresado   = "egresado"
	NNATrasladado = "trasladado"
	NNATemporal   = "temporal"
)

// Contacto is an emergency contact attached to a resident.
type Contacto struct {
	Nombre   string `json:"nombre,omitempty" bson:"nombre,omitempty"`
	Telefono string `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Relacion string `json:"relacion,omitempty" bson:"relacion,omitempty"`
}

// NNA is a resident minor under protective care, the system's primary
// subject entity. Date-only fields use DateLayout strings.
type NNA struct {
	ID              string     `json:"id" bson:"-"`
	Nombre          string     `json:"nombre" bson:"nombre"`
	Apellido        string     `json:"apellido" bson:"apellido"`
	RUT             string     `json:"rut,omitempty" bson:"rut,omitempty"`
	FechaNacimiento string     `json:"fecha_nacimiento,omitempty" bson:"fecha_nacimiento,omitempty"`
	Edad            int        `json:"edad,omitempty" bson:"edad,omitempty"`
	Genero          string     `json:"genero" bson:"genero"`
	FechaIngreso    string     `json:"fecha_ingreso" bson:"fecha_ingreso"`
	FechaEgreso     string     `json:"fecha_egreso,omitempty" bson:"fecha_egreso,omitempty"`
	Estado          string     `json:"estado" bson:"estado"`
	Telefono        string     `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Direccion       string     `json:"direccion,omitempty" bson:"direccion,omitempty"`
	Comuna          string     `json:"comuna,omitempty" bson:"comuna,omitempty"`
	Region          string     `json:"region,omitempty" bson:"region,omitempty"`
	ContactoEmergencia *Contacto `json:"contacto_emergencia,omitempty" bson:"contacto_emergencia,omitempty"`
	Alergias        string     `json:"alergias,omitempty" bson:"alergias,omitempty"`
	Medicamentos    string     `json:"medicamentos,omitempty" bson:"medicamentos,omitempty"`
	CondicionesMedicas string  `json:"condiciones_medicas,omitempty" bson:"condiciones_medicas,omitempty"`
	EstablecimientoEducacional string `json:"establecimiento_educacional,omitempty" bson:"establecimiento_educacional,omitempty"`
	Curso           string     `json:"curso,omitempty" bson:"curso,omitempty"`
	Observaciones   string     `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoEn        time.Time  `json:"creado_en" bson:"creado_en"`
	ActualizadoEn   *time.Time `json:"actualizado_en,omitempty" bson:"actualizado_en,omitempty"`
	CreadoPor       string     `json:"creado_por,omitempty" bson:"creado_por,omitempty"`
}

// NombreCompleto is used in alert titles and reports.
func (n *NNA) NombreCompleto() string {
	return n.Nombre + " " + n.Apellido
}

// NNAFilter narrows resident listings.
type NNAFilter struct {
	Estado string
	Search string
	Skip   int64
	Limit  int64
}

// NNAStats aggregates resident counts for the stats endpoint.
type NNAStats struct {
	Total       int64            `json:"total"`
	Activos     int64            `json:"activos"`
	Egresados   int64            `json:"egresados"`
	Trasladados int64            `json:"trasladados"`
	Temporal    int64            `json:"temporal"`
	PorGenero   map[string]int64 `json:"por_genero"`
}
