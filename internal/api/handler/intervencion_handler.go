package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// IntervencionHandler handles professional interventions on residents.
type IntervencionHandler struct {
	intervenciones ports.IntervencionRepository
	nna            ports.NNARepository
}

func NewIntervencionHandler(intervenciones ports.IntervencionRepository, nna ports.NNARepository) *IntervencionHandler {
	return &IntervencionHandler{intervenciones: intervenciones, nna: nna}
}

type createIntervencionRequest struct {
	NNAID                   string `json:"nna_id" validate:"required"`
	Fecha                   string `json:"fecha" validate:"required"`
	Tipo                    string `json:"tipo" validate:"required"`
	Motivo                  string `json:"motivo" validate:"required"`
	Descripcion             string `json:"descripcion" validate:"required"`
	Resultados              string `json:"resultados"`
	Derivacion              string `json:"derivacion"`
	Estado                  string `json:"estado" validate:"omitempty,oneof=pendiente en_proceso completada cancelada"`
	Prioridad               string `json:"prioridad" validate:"omitempty,oneof=baja media alta urgente"`
	FechaProximoSeguimiento string `json:"fecha_proximo_seguimiento"`
}

type updateIntervencionRequest struct {
	Fecha                   *string `json:"fecha"`
	Tipo                    *string `json:"tipo"`
	Motivo                  *string `json:"motivo"`
	Descripcion             *string `json:"descripcion"`
	Resultados              *string `json:"resultados"`
	Derivacion              *string `json:"derivacion"`
	Estado                  *string `json:"estado" validate:"omitempty,oneof=pendiente en_proceso completada cancelada"`
	Prioridad               *string `json:"prioridad" validate:"omitempty,oneof=baja media alta urgente"`
	FechaProximoSeguimiento *string `json:"fecha_proximo_seguimiento"`
}

func (h *IntervencionHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.IntervencionFilter{
		NNAID:      c.QueryParam("nna_id"),
		Tipo:       c.QueryParam("tipo"),
		Estado:     c.QueryParam("estado"),
		Prioridad:  c.QueryParam("prioridad"),
		FechaDesde: c.QueryParam("fecha_desde"),
		FechaHasta: c.QueryParam("fecha_hasta"),
		Skip:       skip,
		Limit:      limit,
	}

	intervenciones, err := h.intervenciones.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, intervenciones)
}

func (h *IntervencionHandler) Get(c echo.Context) error {
	i, err := h.intervenciones.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

func (h *IntervencionHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createIntervencionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.nna.FindByID(c.Request().Context(), req.NNAID); err != nil {
		return err
	}

	estado := req.Estado
	if estado == "" {
		estado = domain.IntervencionPendiente
	}
	prioridad := req.Prioridad
	if prioridad == "" {
		prioridad = domain.PrioridadMedia
	}

	created, err := h.intervenciones.Create(c.Request().Context(), &domain.Intervencion{
		NNAID:                   req.NNAID,
		Fecha:                   req.Fecha,
		Tipo:                    req.Tipo,
		Motivo:                  req.Motivo,
		Descripcion:             req.Descripcion,
		Resultados:              req.Resultados,
		Derivacion:              req.Derivacion,
		Estado:                  estado,
		Prioridad:               prioridad,
		FechaProximoSeguimiento: req.FechaProximoSeguimiento,
		CreadoEn:                time.Now().UTC(),
		CreadoPor:               p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *IntervencionHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateIntervencionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	i, err := h.intervenciones.Update(c.Request().Context(), c.Param("id"), ports.IntervencionUpdate{
		Fecha:                   req.Fecha,
		Tipo:                    req.Tipo,
		Motivo:                  req.Motivo,
		Descripcion:             req.Descripcion,
		Resultados:              req.Resultados,
		Derivacion:              req.Derivacion,
		Estado:                  req.Estado,
		Prioridad:               req.Prioridad,
		FechaProximoSeguimiento: req.FechaProximoSeguimiento,
		ActualizadoPor:          p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

func (h *IntervencionHandler) Delete(c echo.Context) error {
	if err := h.intervenciones.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *IntervencionHandler) Stats(c echo.Context) error {
	stats, err := h.intervenciones.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
