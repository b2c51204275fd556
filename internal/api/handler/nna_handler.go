package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
	"github.com/residencia-nna/residencia-api/pkg/rut"
)

// NNAHandler handles resident records. Deleting a resident cascades to
// their interventions, follow-ups and workshop enrollments.
type NNAHandler struct {
	nna            ports.NNARepository
	intervenciones ports.IntervencionRepository
	seguimientos   ports.SeguimientoRepository
	talleres       ports.TallerRepository
	log            zerolog.Logger
}

func NewNNAHandler(nna ports.NNARepository, intervenciones ports.IntervencionRepository, seguimientos ports.SeguimientoRepository, talleres ports.TallerRepository, log zerolog.Logger) *NNAHandler {
	return &NNAHandler{
		nna:            nna,
		intervenciones: intervenciones,
		seguimientos:   seguimientos,
		talleres:       talleres,
		log:            log,
	}
}

type contactoRequest struct {
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	Relacion string `json:"relacion"`
}

type createNNARequest struct {
	Nombre          string           `json:"nombre"   validate:"required"`
	Apellido        string           `json:"apellido" validate:"required"`
	RUT             string           `json:"rut"`
	FechaNacimiento string           `json:"fecha_nacimiento"`
	Edad            int              `json:"edad" validate:"omitempty,gte=0"`
	Genero          string           `json:"genero" validate:"required"`
	FechaIngreso    string           `json:"fecha_ingreso" validate:"required"`
	Estado          string           `json:"estado" validate:"omitempty,oneof=activo egresado trasladado temporal"`
	Telefono        string           `json:"telefono"`
	Direccion       string           `json:"direccion"`
	Comuna          string           `json:"comuna"`
	Region          string           `json:"region"`
	ContactoEmergencia *contactoRequest `json:"contacto_emergencia"`
	Alergias        string           `json:"alergias"`
	Medicamentos    string           `json:"medicamentos"`
	CondicionesMedicas string        `json:"condiciones_medicas"`
	EstablecimientoEducacional string `json:"establecimiento_educacional"`
	Curso           string           `json:"curso"`
	Observaciones   string           `json:"observaciones"`
}

type updateNNARequest struct {
	Nombre          *string          `json:"nombre"`
	Apellido        *string          `json:"apellido"`
	RUT             *string          `json:"rut"`
	FechaNacimiento *string          `json:"fecha_nacimiento"`
	Edad            *int             `json:"edad" validate:"omitempty,gte=0"`
	Genero          *string          `json:"genero"`
	FechaEgreso     *string          `json:"fecha_egreso"`
	Estado          *string          `json:"estado" validate:"omitempty,oneof=activo egresado trasladado temporal"`
	Telefono        *string          `json:"telefono"`
	Direccion       *string          `json:"direccion"`
	Comuna          *string          `json:"comuna"`
	Region          *string          `json:"region"`
	ContactoEmergencia *contactoRequest `json:"contacto_emergencia"`
	Alergias        *string          `json:"alergias"`
	Medicamentos    *string          `json:"medicamentos"`
	CondicionesMedicas *string       `json:"condiciones_medicas"`
	EstablecimientoEducacional *string `json:"establecimiento_educacional"`
	Curso           *string          `json:"curso"`
	Observaciones   *string          `json:"observaciones"`
}

type validarRUTRequest struct {
	RUT string `json:"rut" validate:"required"`
}

type validarRUTResponse struct {
	Valido     bool   `json:"valido"`
	Formateado string `json:"formateado,omitempty"`
}

func (h *NNAHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.NNAFilter{
		Estado: c.QueryParam("estado"),
		Search: c.QueryParam("buscar"),
		Skip:   skip,
		Limit:  limit,
	}

	residentes, err := h.nna.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, residentes)
}

func (h *NNAHandler) Get(c echo.Context) error {
	n, err := h.nna.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NNAHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createNNARequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rutLimpio := rut.Clean(req.RUT)
	if !rut.Validate(rutLimpio) {
		return domain.ErrInvalidRUT
	}

	estado := req.Estado
	if estado == "" {
		estado = domain.NNAActivo
	}
	n := &domain.NNA{
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		RUT:             rutLimpio,
		FechaNacimiento: req.FechaNacimiento,
		Edad:            req.Edad,
		Genero:          req.Genero,
		FechaIngreso:    req.FechaIngreso,
		Estado:          estado,
		Telefono:        req.Telefono,
		Direccion:       req.Direccion,
		Comuna:          req.Comuna,
		Region:          req.Region,
		Alergias:        req.Alergias,
		Medicamentos:    req.Medicamentos,
		CondicionesMedicas: req.CondicionesMedicas,
		EstablecimientoEducacional: req.EstablecimientoEducacional,
		Curso:           req.Curso,
		Observaciones:   req.Observaciones,
		CreadoEn:        time.Now().UTC(),
		CreadoPor:       p.UserID,
	}
	if req.ContactoEmergencia != nil {
		n.ContactoEmergencia = &domain.Contacto{
			Nombre:   req.ContactoEmergencia.Nombre,
			Telefono: req.ContactoEmergencia.Telefono,
			Relacion: req.ContactoEmergencia.Relacion,
		}
	}

	created, err := h.nna.Create(c.Request().Context(), n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *NNAHandler) Update(c echo.Context) error {
	var req updateNNARequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := ports.NNAUpdate{
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		FechaNacimiento: req.FechaNacimiento,
		Edad:            req.Edad,
		Genero:          req.Genero,
		FechaEgreso:     req.FechaEgreso,
		Estado:          req.Estado,
		Telefono:        req.Telefono,
		Direccion:       req.Direccion,
		Comuna:          req.Comuna,
		Region:          req.Region,
		Alergias:        req.Alergias,
		Medicamentos:    req.Medicamentos,
		CondicionesMedicas: req.CondicionesMedicas,
		EstablecimientoEducacional: req.EstablecimientoEducacional,
		Curso:           req.Curso,
		Observaciones:   req.Observaciones,
	}
	if req.RUT != nil {
		limpio := rut.Clean(*req.RUT)
		if !rut.Validate(limpio) {
			return domain.ErrInvalidRUT
		}
		update.RUT = &limpio
	}
	if req.ContactoEmergencia != nil {
		update.ContactoEmergencia = &domain.Contacto{
			Nombre:   req.ContactoEmergencia.Nombre,
			Telefono: req.ContactoEmergencia.Telefono,
			Relacion: req.ContactoEmergencia.Relacion,
		}
	}

	n, err := h.nna.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// Delete removes a resident and every dependent record. Cascade failures
// are logged but do not abort: the resident record itself is already gone
// and a retry of the orphan cleanup is always safe.
func (h *NNAHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.nna.Delete(ctx, id); err != nil {
		return err
	}

	if err := h.intervenciones.DeleteByNNA(ctx, id); err != nil {
		h.log.Warn().Err(err).Str("nna_id", id).Msg("cascade delete of interventions failed")
	}
	if err := h.seguimientos.DeleteByNNA(ctx, id); err != nil {
		h.log.Warn().Err(err).Str("nna_id", id).Msg("cascade delete of follow-ups failed")
	}
	if err := h.talleres.RemoveParticipanteTodos(ctx, id); err != nil {
		h.log.Warn().Err(err).Str("nna_id", id).Msg("cascade unenroll from workshops failed")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *NNAHandler) Stats(c echo.Context) error {
	stats, err := h.nna.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ValidarRUT checks a Chilean RUT's verification digit without touching
// any record.
func (h *NNAHandler) ValidarRUT(c echo.Context) error {
	var req validarRUTRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	limpio := rut.Clean(req.RUT)
	if !rut.Validate(limpio) {
		return c.JSON(http.StatusOK, validarRUTResponse{Valido: false})
	}
	return c.JSON(http.StatusOK, validarRUTResponse{
		Valido:     true,
		Formateado: rut.Format(limpio),
	})
}

// BuscarPorRUT handles GET /api/nna/rut/:rut.
func (h *NNAHandler) BuscarPorRUT(c echo.Context) error {
	limpio := rut.Clean(c.Param("rut"))
	if !rut.Validate(limpio) {
		return domain.ErrInvalidRUT
	}

	n, err := h.nna.FindByRUT(c.Request().Context(), limpio)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}
