package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
	"github.com/residencia-nna/residencia-api/pkg/rut"
)

// RedApoyoHandler handles a resident's support-network contacts.
type RedApoyoHandler struct {
	red ports.RedApoyoRepository
}

func NewRedApoyoHandler(red ports.RedApoyoRepository) *RedApoyoHandler {
	return &RedApoyoHandler{red: red}
}

type createRedApoyoRequest struct {
	NNAID               string `json:"nna_id" validate:"required"`
	Nombre              string `json:"nombre" validate:"required"`
	RUT                 string `json:"rut"`
	TipoVinculo         string `json:"tipo_vinculo" validate:"required"`
	Telefono            string `json:"telefono"`
	Email               string `json:"email" validate:"omitempty,email"`
	Direccion           string `json:"direccion"`
	EsCuidadorTemporal  bool   `json:"es_cuidador_temporal"`
	EsPPF               bool   `json:"es_ppf"`
	EsContactoEmergencia bool  `json:"es_contacto_emergencia"`
	Estado              string `json:"estado"`
	Observaciones       string `json:"observaciones"`
}

type updateRedApoyoRequest struct {
	Nombre              *string `json:"nombre"`
	RUT                 *string `json:"rut"`
	TipoVinculo         *string `json:"tipo_vinculo"`
	Telefono            *string `json:"telefono"`
	Email               *string `json:"email" validate:"omitempty,email"`
	Direccion           *string `json:"direccion"`
	EsCuidadorTemporal  *bool   `json:"es_cuidador_temporal"`
	EsPPF               *bool   `json:"es_ppf"`
	EsContactoEmergencia *bool  `json:"es_contacto_emergencia"`
	Estado              *string `json:"estado"`
	Observaciones       *string `json:"observaciones"`
}

type evaluarRequest struct {
	Nivel      string `json:"nivel" validate:"required"`
	Comentario string `json:"comentario"`
}

func (h *RedApoyoHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.RedApoyoFilter{
		NNAID:              c.QueryParam("nna_id"),
		TipoVinculo:        c.QueryParam("tipo_vinculo"),
		Estado:             c.QueryParam("estado"),
		NivelConfiabilidad: c.QueryParam("nivel_confiabilidad"),
		SoloCuidadores:     c.QueryParam("solo_cuidadores") == "true",
		SoloPPF:            c.QueryParam("solo_ppf") == "true",
		Skip:               skip,
		Limit:              limit,
	}

	contactos, err := h.red.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactos)
}

func (h *RedApoyoHandler) Get(c echo.Context) error {
	r, err := h.red.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// PorNNA lists all support-network contacts of one resident.
func (h *RedApoyoHandler) PorNNA(c echo.Context) error {
	contactos, err := h.red.ListByNNA(c.Request().Context(), c.Param("nnaId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactos)
}

func (h *RedApoyoHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createRedApoyoRequest
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
		estado = "activo"
	}

	created, err := h.red.Create(c.Request().Context(), &domain.RedApoyo{
		NNAID:               req.NNAID,
		Nombre:              req.Nombre,
		RUT:                 rutLimpio,
		TipoVinculo:         req.TipoVinculo,
		Telefono:            req.Telefono,
		Email:               req.Email,
		Direccion:           req.Direccion,
		EsCuidadorTemporal:  req.EsCuidadorTemporal,
		EsPPF:               req.EsPPF,
		EsContactoEmergencia: req.EsContactoEmergencia,
		NivelConfiabilidad:  domain.ConfiabilidadNoEvaluado,
		Estado:              estado,
		Observaciones:       req.Observaciones,
		CreadoEn:            time.Now().UTC(),
		CreadoPor:           p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *RedApoyoHandler) Update(c echo.Context) error {
	var req updateRedApoyoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := ports.RedApoyoUpdate{
		Nombre:              req.Nombre,
		TipoVinculo:         req.TipoVinculo,
		Telefono:            req.Telefono,
		Email:               req.Email,
		Direccion:           req.Direccion,
		EsCuidadorTemporal:  req.EsCuidadorTemporal,
		EsPPF:               req.EsPPF,
		EsContactoEmergencia: req.EsContactoEmergencia,
		Estado:              req.Estado,
		Observaciones:       req.Observaciones,
	}
	if req.RUT != nil {
		limpio := rut.Clean(*req.RUT)
		if !rut.Validate(limpio) {
			return domain.ErrInvalidRUT
		}
		update.RUT = &limpio
	}

	r, err := h.red.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RedApoyoHandler) Delete(c echo.Context) error {
	if err := h.red.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Evaluar records a reliability assessment. Coordinator-level operation;
// the level must belong to the closed set.
func (h *RedApoyoHandler) Evaluar(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req evaluarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !domain.NivelConfiabilidadValido(req.Nivel) {
		return domain.ErrNivelInvalido
	}

	err = h.red.Evaluar(c.Request().Context(), c.Param("id"), ports.Evaluacion{
		Nivel:      req.Nivel,
		Comentario: req.Comentario,
		Fecha:      domain.FormatDate(time.Now().UTC()),
		EvaluadoPor: p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "evaluación registrada"})
}

func (h *RedApoyoHandler) Stats(c echo.Context) error {
	stats, err := h.red.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
