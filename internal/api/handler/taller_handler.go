package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// TallerHandler handles workshops and their enrollments.
type TallerHandler struct {
	talleres ports.TallerRepository
	nna      ports.NNARepository
}

func NewTallerHandler(talleres ports.TallerRepository, nna ports.NNARepository) *TallerHandler {
	return &TallerHandler{talleres: talleres, nna: nna}
}

type createTallerRequest struct {
	Nombre          string `json:"nombre" validate:"required"`
	Descripcion     string `json:"descripcion"`
	Fecha           string `json:"fecha" validate:"required"`
	HoraInicio      string `json:"hora_inicio" validate:"required"`
	HoraTermino     string `json:"hora_termino" validate:"required"`
	Ubicacion       string `json:"ubicacion"`
	Objetivos       string `json:"objetivos"`
	Materiales      string `json:"materiales"`
	ResponsableID   string `json:"responsable_id" validate:"required"`
	CapacidadMaxima int    `json:"capacidad_maxima" validate:"required,gt=0"`
	Estado          string `json:"estado" validate:"omitempty,oneof=programado en_curso completado cancelado"`
}

type updateTallerRequest struct {
	Nombre          *string `json:"nombre"`
	Descripcion     *string `json:"descripcion"`
	Fecha           *string `json:"fecha"`
	HoraInicio      *string `json:"hora_inicio"`
	HoraTermino     *string `json:"hora_termino"`
	Ubicacion       *string `json:"ubicacion"`
	Objetivos       *string `json:"objetivos"`
	Materiales      *string `json:"materiales"`
	ResponsableID   *string `json:"responsable_id"`
	CapacidadMaxima *int    `json:"capacidad_maxima" validate:"omitempty,gt=0"`
	Estado          *string `json:"estado" validate:"omitempty,oneof=programado en_curso completado cancelado"`
}

type addParticipanteRequest struct {
	NNAID         string `json:"nna_id" validate:"required"`
	Observaciones string `json:"observaciones"`
}

func (h *TallerHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.TallerFilter{
		Estado:     c.QueryParam("estado"),
		FechaDesde: c.QueryParam("fecha_desde"),
		FechaHasta: c.QueryParam("fecha_hasta"),
		Skip:       skip,
		Limit:      limit,
	}

	talleres, err := h.talleres.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, talleres)
}

func (h *TallerHandler) Get(c echo.Context) error {
	t, err := h.talleres.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// PorParticipante lists the workshops a resident is enrolled in.
func (h *TallerHandler) PorParticipante(c echo.Context) error {
	talleres, err := h.talleres.ListByParticipante(c.Request().Context(), c.Param("nnaId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, talleres)
}

func (h *TallerHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createTallerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	estado := req.Estado
	if estado == "" {
		estado = domain.TallerProgramado
	}

	created, err := h.talleres.Create(c.Request().Context(), &domain.Taller{
		Nombre:          req.Nombre,
		Descripcion:     req.Descripcion,
		Fecha:           req.Fecha,
		HoraInicio:      req.HoraInicio,
		HoraTermino:     req.HoraTermino,
		Ubicacion:       req.Ubicacion,
		Objetivos:       req.Objetivos,
		Materiales:      req.Materiales,
		ResponsableID:   req.ResponsableID,
		Participantes:   []domain.Participante{},
		CapacidadMaxima: req.CapacidadMaxima,
		Estado:          estado,
		CreadoEn:        time.Now().UTC(),
		CreadoPor:       p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *TallerHandler) Update(c echo.Context) error {
	var req updateTallerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.talleres.Update(c.Request().Context(), c.Param("id"), ports.TallerUpdate{
		Nombre:          req.Nombre,
		Descripcion:     req.Descripcion,
		Fecha:           req.Fecha,
		HoraInicio:      req.HoraInicio,
		HoraTermino:     req.HoraTermino,
		Ubicacion:       req.Ubicacion,
		Objetivos:       req.Objetivos,
		Materiales:      req.Materiales,
		ResponsableID:   req.ResponsableID,
		CapacidadMaxima: req.CapacidadMaxima,
		Estado:          req.Estado,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TallerHandler) Delete(c echo.Context) error {
	if err := h.talleres.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddParticipante enrolls a resident. The repository enforces capacity
// and duplicate membership atomically.
func (h *TallerHandler) AddParticipante(c echo.Context) error {
	var req addParticipanteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.nna.FindByID(c.Request().Context(), req.NNAID); err != nil {
		return err
	}

	err := h.talleres.AddParticipante(c.Request().Context(), c.Param("id"), domain.Participante{
		NNAID:         req.NNAID,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "participante inscrito"})
}

func (h *TallerHandler) RemoveParticipante(c echo.Context) error {
	err := h.talleres.RemoveParticipante(c.Request().Context(), c.Param("id"), c.Param("nnaId"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TallerHandler) Stats(c echo.Context) error {
	stats, err := h.talleres.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
