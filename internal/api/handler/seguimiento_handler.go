package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// SeguimientoHandler handles periodic multi-area evaluations.
type SeguimientoHandler struct {
	seguimientos ports.SeguimientoRepository
	nna          ports.NNARepository
}

func NewSeguimientoHandler(seguimientos ports.SeguimientoRepository, nna ports.NNARepository) *SeguimientoHandler {
	return &SeguimientoHandler{seguimientos: seguimientos, nna: nna}
}

type createSeguimientoRequest struct {
	NNAID               string `json:"nna_id" validate:"required"`
	Fecha               string `json:"fecha" validate:"required"`
	Tipo                string `json:"tipo" validate:"required"`
	AreaSalud           string `json:"area_salud"`
	AreaEducativa       string `json:"area_educativa"`
	AreaSocial          string `json:"area_social"`
	AreaFamiliar        string `json:"area_familiar"`
	AreaEmocional       string `json:"area_emocional"`
	EvaluacionGeneral   string `json:"evaluacion_general" validate:"required"`
	Fortalezas          string `json:"fortalezas"`
	Dificultades        string `json:"dificultades"`
	ObjetivosCortoPlazo string `json:"objetivos_corto_plazo"`
	ObjetivosMedioPlazo string `json:"objetivos_medio_plazo"`
	ObjetivosLargoPlazo string `json:"objetivos_largo_plazo"`
	Recomendaciones     string `json:"recomendaciones"`
	Estado              string `json:"estado" validate:"omitempty,oneof=pendiente en_proceso completado"`
}

type updateSeguimientoRequest struct {
	Fecha               *string `json:"fecha"`
	Tipo                *string `json:"tipo"`
	AreaSalud           *string `json:"area_salud"`
	AreaEducativa       *string `json:"area_educativa"`
	AreaSocial          *string `json:"area_social"`
	AreaFamiliar        *string `json:"area_familiar"`
	AreaEmocional       *string `json:"area_emocional"`
	EvaluacionGeneral   *string `json:"evaluacion_general"`
	Fortalezas          *string `json:"fortalezas"`
	Dificultades        *string `json:"dificultades"`
	ObjetivosCortoPlazo *string `json:"objetivos_corto_plazo"`
	ObjetivosMedioPlazo *string `json:"objetivos_medio_plazo"`
	ObjetivosLargoPlazo *string `json:"objetivos_largo_plazo"`
	Recomendaciones     *string `json:"recomendaciones"`
	Estado              *string `json:"estado" validate:"omitempty,oneof=pendiente en_proceso completado"`
}

func (h *SeguimientoHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.SeguimientoFilter{
		NNAID:  c.QueryParam("nna_id"),
		Tipo:   c.QueryParam("tipo"),
		Estado: c.QueryParam("estado"),
		Skip:   skip,
		Limit:  limit,
	}

	seguimientos, err := h.seguimientos.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seguimientos)
}

func (h *SeguimientoHandler) Get(c echo.Context) error {
	s, err := h.seguimientos.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SeguimientoHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createSeguimientoRequest
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
		estado = domain.SeguimientoPendiente
	}

	created, err := h.seguimientos.Create(c.Request().Context(), &domain.Seguimiento{
		NNAID:               req.NNAID,
		Fecha:               req.Fecha,
		Tipo:                req.Tipo,
		AreaSalud:           req.AreaSalud,
		AreaEducativa:       req.AreaEducativa,
		AreaSocial:          req.AreaSocial,
		AreaFamiliar:        req.AreaFamiliar,
		AreaEmocional:       req.AreaEmocional,
		EvaluacionGeneral:   req.EvaluacionGeneral,
		Fortalezas:          req.Fortalezas,
		Dificultades:        req.Dificultades,
		ObjetivosCortoPlazo: req.ObjetivosCortoPlazo,
		ObjetivosMedioPlazo: req.ObjetivosMedioPlazo,
		ObjetivosLargoPlazo: req.ObjetivosLargoPlazo,
		Recomendaciones:     req.Recomendaciones,
		Estado:              estado,
		CreadoEn:            time.Now().UTC(),
		CreadoPor:           p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *SeguimientoHandler) Update(c echo.Context) error {
	var req updateSeguimientoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s, err := h.seguimientos.Update(c.Request().Context(), c.Param("id"), ports.SeguimientoUpdate{
		Fecha:               req.Fecha,
		Tipo:                req.Tipo,
		AreaSalud:           req.AreaSalud,
		AreaEducativa:       req.AreaEducativa,
		AreaSocial:          req.AreaSocial,
		AreaFamiliar:        req.AreaFamiliar,
		AreaEmocional:       req.AreaEmocional,
		EvaluacionGeneral:   req.EvaluacionGeneral,
		Fortalezas:          req.Fortalezas,
		Dificultades:        req.Dificultades,
		ObjetivosCortoPlazo: req.ObjetivosCortoPlazo,
		ObjetivosMedioPlazo: req.ObjetivosMedioPlazo,
		ObjetivosLargoPlazo: req.ObjetivosLargoPlazo,
		Recomendaciones:     req.Recomendaciones,
		Estado:              req.Estado,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SeguimientoHandler) Delete(c echo.Context) error {
	if err := h.seguimientos.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
