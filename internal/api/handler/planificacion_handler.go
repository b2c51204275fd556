package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// ventanaProximasDias is the look-ahead of the upcoming-activities
// listing.
const ventanaProximasDias = 30

// PlanificacionHandler handles annual-planning activities.
type PlanificacionHandler struct {
	planificaciones ports.PlanificacionRepository
}

func NewPlanificacionHandler(planificaciones ports.PlanificacionRepository) *PlanificacionHandler {
	return &PlanificacionHandler{planificaciones: planificaciones}
}

type createPlanificacionRequest struct {
	Titulo        string `json:"titulo" validate:"required"`
	Descripcion   string `json:"descripcion"`
	Tipo          string `json:"tipo" validate:"required"`
	Categoria     string `json:"categoria"`
	NNAID         string `json:"nna_id"`
	Anio          int    `json:"anio" validate:"required,gt=2000"`
	FechaInicio   string `json:"fecha_inicio" validate:"required"`
	FechaTermino  string `json:"fecha_termino"`
	ResponsableID string `json:"responsable_id" validate:"required"`
	Observaciones string `json:"observaciones"`
}

type updatePlanificacionRequest struct {
	Titulo        *string `json:"titulo"`
	Descripcion   *string `json:"descripcion"`
	Tipo          *string `json:"tipo"`
	Categoria     *string `json:"categoria"`
	Anio          *int    `json:"anio" validate:"omitempty,gt=2000"`
	FechaInicio   *string `json:"fecha_inicio"`
	FechaTermino  *string `json:"fecha_termino"`
	ResponsableID *string `json:"responsable_id"`
	Estado        *string `json:"estado" validate:"omitempty,oneof=planificada en_curso realizada suspendida"`
	Observaciones *string `json:"observaciones"`
}

type cambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=planificada en_curso realizada suspendida"`
}

type addPlanParticipanteRequest struct {
	NNAID string `json:"nna_id" validate:"required"`
}

type addEvidenciaRequest struct {
	Descripcion string `json:"descripcion" validate:"required"`
	URL         string `json:"url"`
}

func (h *PlanificacionHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.PlanificacionFilter{
		NNAID:     c.QueryParam("nna_id"),
		Tipo:      c.QueryParam("tipo"),
		Categoria: c.QueryParam("categoria"),
		Estado:    c.QueryParam("estado"),
		Skip:      skip,
		Limit:     limit,
	}
	if v := c.QueryParam("anio"); v != "" {
		anio, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "parámetro anio inválido")
		}
		filter.Anio = anio
	}

	actividades, err := h.planificaciones.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actividades)
}

func (h *PlanificacionHandler) Get(c echo.Context) error {
	p, err := h.planificaciones.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanificacionHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createPlanificacionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.planificaciones.Create(c.Request().Context(), &domain.Planificacion{
		Titulo:        req.Titulo,
		Descripcion:   req.Descripcion,
		Tipo:          req.Tipo,
		Categoria:     req.Categoria,
		NNAID:         req.NNAID,
		Anio:          req.Anio,
		FechaInicio:   req.FechaInicio,
		FechaTermino:  req.FechaTermino,
		ResponsableID: req.ResponsableID,
		Participantes: []string{},
		Estado:        domain.ActividadPlanificada,
		Evidencias:    []domain.Evidencia{},
		Observaciones: req.Observaciones,
		CreadoEn:      time.Now().UTC(),
		CreadoPor:     principal.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PlanificacionHandler) Update(c echo.Context) error {
	var req updatePlanificacionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.planificaciones.Update(c.Request().Context(), c.Param("id"), ports.PlanificacionUpdate{
		Titulo:        req.Titulo,
		Descripcion:   req.Descripcion,
		Tipo:          req.Tipo,
		Categoria:     req.Categoria,
		Anio:          req.Anio,
		FechaInicio:   req.FechaInicio,
		FechaTermino:  req.FechaTermino,
		ResponsableID: req.ResponsableID,
		Estado:        req.Estado,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlanificacionHandler) Delete(c echo.Context) error {
	if err := h.planificaciones.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlanificacionHandler) CambiarEstado(c echo.Context) error {
	var req cambiarEstadoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.planificaciones.CambiarEstado(c.Request().Context(), c.Param("id"), req.Estado); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "estado actualizado"})
}

func (h *PlanificacionHandler) AddParticipante(c echo.Context) error {
	var req addPlanParticipanteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.planificaciones.AddParticipante(c.Request().Context(), c.Param("id"), req.NNAID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "participante agregado"})
}

func (h *PlanificacionHandler) AddEvidencia(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req addEvidenciaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.planificaciones.AddEvidencia(c.Request().Context(), c.Param("id"), domain.Evidencia{
		Descripcion: req.Descripcion,
		URL:         req.URL,
		RegistradoEn: time.Now().UTC(),
		RegistradoPor: principal.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "evidencia registrada"})
}

func (h *PlanificacionHandler) Stats(c echo.Context) error {
	stats, err := h.planificaciones.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Proximas lists activities starting within ?dias days (default 30).
func (h *PlanificacionHandler) Proximas(c echo.Context) error {
	dias := ventanaProximasDias
	if v := c.QueryParam("dias"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "parámetro dias inválido")
		}
		dias = n
	}

	now := time.Now().UTC()
	desde := domain.FormatDate(now)
	hasta := domain.FormatDate(now.AddDate(0, 0, dias))

	actividades, err := h.planificaciones.Proximas(c.Request().Context(), desde, hasta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actividades)
}

// DiasConmemorativos serves the fixed commemorative-day catalog used to
// seed the annual plan.
func (h *PlanificacionHandler) DiasConmemorativos(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.DiasConmemorativos)
}
