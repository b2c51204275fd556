package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// ReporteHandler serves the cross-collection reporting endpoints.
type ReporteHandler struct {
	reportes ports.ReporteRepository
}

func NewReporteHandler(reportes ports.ReporteRepository) *ReporteHandler {
	return &ReporteHandler{reportes: reportes}
}

func (h *ReporteHandler) Dashboard(c echo.Context) error {
	hoy := domain.FormatDate(time.Now().UTC())
	stats, err := h.reportes.Dashboard(c.Request().Context(), hoy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ReporteNNA returns the complete report of one resident.
func (h *ReporteHandler) ReporteNNA(c echo.Context) error {
	rep, err := h.reportes.ReporteNNA(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}

// rangoFechas reads ?desde/?hasta, defaulting to the last 12 months.
func rangoFechas(c echo.Context) (desde, hasta string) {
	now := time.Now().UTC()
	desde = c.QueryParam("desde")
	hasta = c.QueryParam("hasta")
	if desde == "" {
		desde = domain.FormatDate(now.AddDate(-1, 0, 0))
	}
	if hasta == "" {
		hasta = domain.FormatDate(now)
	}
	return desde, hasta
}

func (h *ReporteHandler) IntervencionesPorTipo(c echo.Context) error {
	desde, hasta := rangoFechas(c)
	resumen, err := h.reportes.IntervencionesPorTipo(c.Request().Context(), desde, hasta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resumen)
}

func (h *ReporteHandler) TalleresAsistencia(c echo.Context) error {
	desde, hasta := rangoFechas(c)
	asistencia, err := h.reportes.TalleresAsistencia(c.Request().Context(), desde, hasta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, asistencia)
}

func (h *ReporteHandler) ActividadReciente(c echo.Context) error {
	limit := int64(20)
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 || n > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "parámetro limit inválido")
		}
		limit = n
	}

	actividad, err := h.reportes.ActividadReciente(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actividad)
}
