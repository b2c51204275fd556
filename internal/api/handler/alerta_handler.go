package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/api/metrics"
	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// AlertaHandler handles alerts and exposes the due-date rule engine.
type AlertaHandler struct {
	alertas   ports.AlertaRepository
	generador ports.AlertaGenerator
	nna       ports.NNARepository
}

func NewAlertaHandler(alertas ports.AlertaRepository, generador ports.AlertaGenerator, nna ports.NNARepository) *AlertaHandler {
	return &AlertaHandler{alertas: alertas, generador: generador, nna: nna}
}

type createAlertaRequest struct {
	NNAID             string `json:"nna_id"`
	Titulo            string `json:"titulo" validate:"required"`
	Mensaje           string `json:"mensaje" validate:"required"`
	Tipo              string `json:"tipo" validate:"required"`
	Prioridad         string `json:"prioridad" validate:"omitempty,oneof=baja media alta critica"`
	FechaVencimiento  string `json:"fecha_vencimiento"`
	FechaRecordatorio string `json:"fecha_recordatorio"`
	EntidadTipo       string `json:"entidad_tipo"`
	EntidadID         string `json:"entidad_id"`
	URLRedirect       string `json:"url_redirect"`
	AsignadoA         string `json:"asignado_a"`
}

type updateAlertaRequest struct {
	Titulo            *string `json:"titulo"`
	Mensaje           *string `json:"mensaje"`
	Prioridad         *string `json:"prioridad" validate:"omitempty,oneof=baja media alta critica"`
	FechaVencimiento  *string `json:"fecha_vencimiento"`
	FechaRecordatorio *string `json:"fecha_recordatorio"`
	Estado            *string `json:"estado" validate:"omitempty,oneof=activa en_proceso resuelta descartada"`
	AsignadoA         *string `json:"asignado_a"`
}

type resolverAlertaRequest struct {
	Comentario string `json:"comentario"`
}

type asignarAlertaRequest struct {
	UsuarioID string `json:"usuario_id" validate:"required"`
}

type generarResponse struct {
	Message        string `json:"message"`
	AlertasCreadas int    `json:"alertas_creadas"`
}

func (h *AlertaHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	skip, limit := pagination(c)
	filter := domain.AlertaFilter{
		NNAID:       c.QueryParam("nna_id"),
		Tipo:        c.QueryParam("tipo"),
		Prioridad:   c.QueryParam("prioridad"),
		Estado:      c.QueryParam("estado"),
		AsignadoA:   c.QueryParam("asignado_a"),
		SoloActivas: c.QueryParam("solo_activas") == "true",
		Vencidas:    c.QueryParam("vencidas") == "true",
		Skip:        skip,
		Limit:       limit,
	}
	// Technicians only see alerts they own, created, or unassigned ones.
	if p.Rol == domain.RoleTecnico {
		filter.TecnicoID = p.UserID
	}

	alertas, err := h.alertas.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alertas)
}

// MisAlertas lists the caller's open alerts, nearest due date first.
func (h *AlertaHandler) MisAlertas(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	_, limit := pagination(c)
	alertas, err := h.alertas.MisAlertas(c.Request().Context(), p.UserID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alertas)
}

func (h *AlertaHandler) Get(c echo.Context) error {
	a, err := h.alertas.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AlertaHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createAlertaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.NNAID != "" {
		if _, err := h.nna.FindByID(c.Request().Context(), req.NNAID); err != nil {
			return err
		}
	}

	prioridad := req.Prioridad
	if prioridad == "" {
		prioridad = domain.PrioridadMedia
	}

	created, err := h.alertas.Create(c.Request().Context(), &domain.Alerta{
		NNAID:             req.NNAID,
		Titulo:            req.Titulo,
		Mensaje:           req.Mensaje,
		Tipo:              req.Tipo,
		Prioridad:         prioridad,
		FechaVencimiento:  req.FechaVencimiento,
		FechaRecordatorio: req.FechaRecordatorio,
		Estado:            domain.AlertaActiva,
		EntidadTipo:       req.EntidadTipo,
		EntidadID:         req.EntidadID,
		URLRedirect:       req.URLRedirect,
		AsignadoA:         req.AsignadoA,
		CreadoEn:          time.Now().UTC(),
		CreadoPor:         p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *AlertaHandler) Update(c echo.Context) error {
	var req updateAlertaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.alertas.Update(c.Request().Context(), c.Param("id"), ports.AlertaUpdate{
		Titulo:            req.Titulo,
		Mensaje:           req.Mensaje,
		Prioridad:         req.Prioridad,
		FechaVencimiento:  req.FechaVencimiento,
		FechaRecordatorio: req.FechaRecordatorio,
		Estado:            req.Estado,
		AsignadoA:         req.AsignadoA,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AlertaHandler) Delete(c echo.Context) error {
	if err := h.alertas.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AlertaHandler) Resolver(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req resolverAlertaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}

	if err := h.alertas.Resolver(c.Request().Context(), c.Param("id"), p.UserID, req.Comentario); err != nil {
		return err
	}
	metrics.AlertasResueltasTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "alerta resuelta"})
}

func (h *AlertaHandler) Asignar(c echo.Context) error {
	var req asignarAlertaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.alertas.Asignar(c.Request().Context(), c.Param("id"), req.UsuarioID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "alerta asignada"})
}

func (h *AlertaHandler) Stats(c echo.Context) error {
	hoy := domain.FormatDate(time.Now().UTC())
	stats, err := h.alertas.Stats(c.Request().Context(), hoy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// GenerarVencimientos runs the 7-day scan over pending follow-ups and
// upcoming workshops. Safe to re-run; existing open alerts are skipped.
func (h *AlertaHandler) GenerarVencimientos(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	n, err := h.generador.GenerarVencimientos(c.Request().Context(), p)
	if err != nil {
		return err
	}
	metrics.AlertasGeneradasTotal.WithLabelValues("vencimientos").Add(float64(n))
	return c.JSON(http.StatusOK, generarResponse{
		Message:        "alertas de vencimiento generadas: " + strconv.Itoa(n),
		AlertasCreadas: n,
	})
}

// GenerarVencimientosMedidas runs the 30-day scan over enforceable
// judicial measures.
func (h *AlertaHandler) GenerarVencimientosMedidas(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	n, err := h.generador.GenerarVencimientosMedidas(c.Request().Context(), p)
	if err != nil {
		return err
	}
	metrics.AlertasGeneradasTotal.WithLabelValues("medidas").Add(float64(n))
	return c.JSON(http.StatusOK, generarResponse{
		Message:        "alertas de medidas generadas: " + strconv.Itoa(n),
		AlertasCreadas: n,
	})
}

// VencimientosMedidas projects measures expiring within ?dias days
// (default 30) without creating anything.
func (h *AlertaHandler) VencimientosMedidas(c echo.Context) error {
	dias := 30
	if v := c.QueryParam("dias"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "parámetro dias inválido")
		}
		dias = n
	}

	vencimientos, err := h.generador.AlertasVencimientoMedidas(c.Request().Context(), dias)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vencimientos)
}
