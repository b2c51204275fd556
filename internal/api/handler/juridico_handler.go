package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

// ventanaStatsMedidasDias is the look-ahead used by the legal stats
// endpoint for its "about to expire" bucket.
const ventanaStatsMedidasDias = 30

// JuridicoHandler handles judicial measures and restrictions. Measures
// have no delete endpoint: court records are never removed, only closed.
type JuridicoHandler struct {
	medidas       ports.MedidaRepository
	restricciones ports.RestriccionRepository
}

func NewJuridicoHandler(medidas ports.MedidaRepository, restricciones ports.RestriccionRepository) *JuridicoHandler {
	return &JuridicoHandler{medidas: medidas, restricciones: restricciones}
}

type createMedidaRequest struct {
	NNAID                     string   `json:"nna_id" validate:"required"`
	NumeroIngreso             string   `json:"numero_ingreso"`
	FechaSolicitud            string   `json:"fecha_solicitud" validate:"required"`
	TipoSolicitud             string   `json:"tipo_solicitud" validate:"required"`
	Solicitante               string   `json:"solicitante"`
	RolSolicitante            string   `json:"rol_solicitante"`
	FechaResolucion           string   `json:"fecha_resolucion"`
	NumeroResolucion          string   `json:"numero_resolucion"`
	TipoMedida                string   `json:"tipo_medida"`
	FechaInicio               string   `json:"fecha_inicio"`
	FechaTermino              string   `json:"fecha_termino"`
	PlazoMeses                int      `json:"plazo_meses" validate:"omitempty,gte=0"`
	Estado                    string   `json:"estado" validate:"omitempty,oneof=en_tramite dictada vigente vencida cerrada"`
	RestriccionContacto       bool     `json:"restriccion_contacto"`
	RestriccionAcercamiento   bool     `json:"restriccion_acercamiento"`
	RestriccionSalidaTerritorio bool   `json:"restriccion_salida_territorio"`
	OtrasRestricciones        string   `json:"otras_restricciones"`
	MedidasComplementarias    []string `json:"medidas_complementarias"`
	Observaciones             string   `json:"observaciones"`
	RequiereSeguimiento       bool     `json:"requiere_seguimiento"`
	FrecuenciaSeguimiento     string   `json:"frecuencia_seguimiento"`
	AlertaDiasAnticipacion    int      `json:"alerta_dias_anticipacion" validate:"omitempty,gte=0"`
}

type updateMedidaRequest struct {
	NumeroIngreso             *string  `json:"numero_ingreso"`
	FechaSolicitud            *string  `json:"fecha_solicitud"`
	TipoSolicitud             *string  `json:"tipo_solicitud"`
	Solicitante               *string  `json:"solicitante"`
	RolSolicitante            *string  `json:"rol_solicitante"`
	FechaResolucion           *string  `json:"fecha_resolucion"`
	NumeroResolucion          *string  `json:"numero_resolucion"`
	TipoMedida                *string  `json:"tipo_medida"`
	FechaInicio               *string  `json:"fecha_inicio"`
	FechaTermino              *string  `json:"fecha_termino"`
	PlazoMeses                *int     `json:"plazo_meses" validate:"omitempty,gte=0"`
	Estado                    *string  `json:"estado" validate:"omitempty,oneof=en_tramite dictada vigente vencida cerrada"`
	RestriccionContacto       *bool    `json:"restriccion_contacto"`
	RestriccionAcercamiento   *bool    `json:"restriccion_acercamiento"`
	RestriccionSalidaTerritorio *bool  `json:"restriccion_salida_territorio"`
	OtrasRestricciones        *string  `json:"otras_restricciones"`
	MedidasComplementarias    []string `json:"medidas_complementarias"`
	Observaciones             *string  `json:"observaciones"`
	RequiereSeguimiento       *bool    `json:"requiere_seguimiento"`
	FrecuenciaSeguimiento     *string  `json:"frecuencia_seguimiento"`
	AlertaDiasAnticipacion    *int     `json:"alerta_dias_anticipacion" validate:"omitempty,gte=0"`
}

type addAudienciaRequest struct {
	Fecha         string `json:"fecha" validate:"required"`
	Hora          string `json:"hora"`
	Tribunal      string `json:"tribunal"`
	TipoAudiencia string `json:"tipo_audiencia"`
	Resultado     string `json:"resultado"`
	Observaciones string `json:"observaciones"`
}

type createRestriccionRequest struct {
	NNAID                   string `json:"nna_id" validate:"required"`
	MedidaID                string `json:"medida_id"`
	Tipo                    string `json:"tipo" validate:"required"`
	Descripcion             string `json:"descripcion" validate:"required"`
	PersonaRestringidaNombre string `json:"persona_restringida_nombre"`
	PersonaRestringidaRUT   string `json:"persona_restringida_rut"`
	RelacionConNNA          string `json:"relacion_con_nna"`
	FechaInicio             string `json:"fecha_inicio" validate:"required"`
	FechaTermino            string `json:"fecha_termino"`
	Indefinida              bool   `json:"indefinida"`
	Estado                  string `json:"estado" validate:"omitempty,oneof=activa vencida levantada"`
	Motivo                  string `json:"motivo"`
	Observaciones           string `json:"observaciones"`
}

func (h *JuridicoHandler) ListMedidas(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.MedidaFilter{
		NNAID:         c.QueryParam("nna_id"),
		Estado:        c.QueryParam("estado"),
		TipoSolicitud: c.QueryParam("tipo_solicitud"),
		TipoMedida:    c.QueryParam("tipo_medida"),
		ProximasVencer: c.QueryParam("proximas_vencer") == "true",
		Vencidas:      c.QueryParam("vencidas") == "true",
		Skip:          skip,
		Limit:         limit,
	}

	medidas, err := h.medidas.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, medidas)
}

func (h *JuridicoHandler) GetMedida(c echo.Context) error {
	m, err := h.medidas.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *JuridicoHandler) CreateMedida(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createMedidaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	estado := req.Estado
	if estado == "" {
		estado = domain.MedidaEnTramite
	}
	complementarias := req.MedidasComplementarias
	if complementarias == nil {
		complementarias = []string{}
	}

	created, err := h.medidas.Create(c.Request().Context(), &domain.MedidaJudicial{
		NNAID:                     req.NNAID,
		NumeroIngreso:             req.NumeroIngreso,
		FechaSolicitud:            req.FechaSolicitud,
		TipoSolicitud:             req.TipoSolicitud,
		Solicitante:               req.Solicitante,
		RolSolicitante:            req.RolSolicitante,
		Audiencias:                []domain.Audiencia{},
		FechaResolucion:           req.FechaResolucion,
		NumeroResolucion:          req.NumeroResolucion,
		TipoMedida:                req.TipoMedida,
		FechaInicio:               req.FechaInicio,
		FechaTermino:              req.FechaTermino,
		PlazoMeses:                req.PlazoMeses,
		Estado:                    estado,
		RestriccionContacto:       req.RestriccionContacto,
		RestriccionAcercamiento:   req.RestriccionAcercamiento,
		RestriccionSalidaTerritorio: req.RestriccionSalidaTerritorio,
		OtrasRestricciones:        req.OtrasRestricciones,
		MedidasComplementarias:    complementarias,
		Observaciones:             req.Observaciones,
		RequiereSeguimiento:       req.RequiereSeguimiento,
		FrecuenciaSeguimiento:     req.FrecuenciaSeguimiento,
		AlertaDiasAnticipacion:    req.AlertaDiasAnticipacion,
		CreadoEn:                  time.Now().UTC(),
		CreadoPor:                 p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *JuridicoHandler) UpdateMedida(c echo.Context) error {
	var req updateMedidaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.medidas.Update(c.Request().Context(), c.Param("id"), ports.MedidaUpdate{
		NumeroIngreso:             req.NumeroIngreso,
		FechaSolicitud:            req.FechaSolicitud,
		TipoSolicitud:             req.TipoSolicitud,
		Solicitante:               req.Solicitante,
		RolSolicitante:            req.RolSolicitante,
		FechaResolucion:           req.FechaResolucion,
		NumeroResolucion:          req.NumeroResolucion,
		TipoMedida:                req.TipoMedida,
		FechaInicio:               req.FechaInicio,
		FechaTermino:              req.FechaTermino,
		PlazoMeses:                req.PlazoMeses,
		Estado:                    req.Estado,
		RestriccionContacto:       req.RestriccionContacto,
		RestriccionAcercamiento:   req.RestriccionAcercamiento,
		RestriccionSalidaTerritorio: req.RestriccionSalidaTerritorio,
		OtrasRestricciones:        req.OtrasRestricciones,
		MedidasComplementarias:    req.MedidasComplementarias,
		Observaciones:             req.Observaciones,
		RequiereSeguimiento:       req.RequiereSeguimiento,
		FrecuenciaSeguimiento:     req.FrecuenciaSeguimiento,
		AlertaDiasAnticipacion:    req.AlertaDiasAnticipacion,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *JuridicoHandler) AddAudiencia(c echo.Context) error {
	var req addAudienciaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.medidas.AddAudiencia(c.Request().Context(), c.Param("id"), domain.Audiencia{
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Tribunal:      req.Tribunal,
		TipoAudiencia: req.TipoAudiencia,
		Resultado:     req.Resultado,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "audiencia registrada"})
}

func (h *JuridicoHandler) Stats(c echo.Context) error {
	now := time.Now().UTC()
	hoy := domain.FormatDate(now)
	limite := domain.FormatDate(now.AddDate(0, 0, ventanaStatsMedidasDias))

	stats, err := h.medidas.Stats(c.Request().Context(), hoy, limite)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ProximasAVencer lists enforceable measures ending within the stats
// window, for the legal dashboard.
func (h *JuridicoHandler) ProximasAVencer(c echo.Context) error {
	now := time.Now().UTC()
	desde := domain.FormatDate(now)
	hasta := domain.FormatDate(now.AddDate(0, 0, ventanaStatsMedidasDias))

	medidas, err := h.medidas.ProximasAVencer(c.Request().Context(), desde, hasta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, medidas)
}

func (h *JuridicoHandler) ListRestricciones(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.RestriccionFilter{
		NNAID:  c.QueryParam("nna_id"),
		Estado: c.QueryParam("estado"),
		Tipo:   c.QueryParam("tipo"),
		Skip:   skip,
		Limit:  limit,
	}

	restricciones, err := h.restricciones.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restricciones)
}

func (h *JuridicoHandler) CreateRestriccion(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createRestriccionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	estado := req.Estado
	if estado == "" {
		estado = domain.RestriccionActiva
	}

	created, err := h.restricciones.Create(c.Request().Context(), &domain.Restriccion{
		NNAID:                   req.NNAID,
		MedidaID:                req.MedidaID,
		Tipo:                    req.Tipo,
		Descripcion:             req.Descripcion,
		PersonaRestringidaNombre: req.PersonaRestringidaNombre,
		PersonaRestringidaRUT:   req.PersonaRestringidaRUT,
		RelacionConNNA:          req.RelacionConNNA,
		FechaInicio:             req.FechaInicio,
		FechaTermino:            req.FechaTermino,
		Indefinida:              req.Indefinida,
		Estado:                  estado,
		Motivo:                  req.Motivo,
		Observaciones:           req.Observaciones,
		CreadoEn:                time.Now().UTC(),
		CreadoPor:               p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
