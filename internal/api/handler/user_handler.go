package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Nombre   string `json:"nombre"   validate:"required"`
	Rol      string `json:"rol"      validate:"required,oneof=viewer tecnico coordinador admin"`
	Activo   *bool  `json:"activo"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateUserRequest struct {
	Nombre   *string `json:"nombre"`
	Rol      *string `json:"rol" validate:"omitempty,oneof=viewer tecnico coordinador admin"`
	Activo   *bool   `json:"activo"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// List handles GET /api/usuarios.
func (h *UserHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	filter := domain.UserFilter{
		Rol:    c.QueryParam("rol"),
		Search: c.QueryParam("buscar"),
		Skip:   skip,
		Limit:  limit,
	}
	if v := c.QueryParam("activo"); v != "" {
		activo, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "activo debe ser true o false")
		}
		filter.Activo = &activo
	}

	users, err := h.users.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}
	user, err := h.users.Create(c.Request().Context(), p, ports.CreateUserInput{
		Email:    req.Email,
		Nombre:   req.Nombre,
		Rol:      req.Rol,
		Activo:   activo,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Update(c.Request().Context(), p, c.Param("id"), ports.UpdateUserInput{
		Nombre:   req.Nombre,
		Rol:      req.Rol,
		Activo:   req.Activo,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de solicitud inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.ResetPassword(c.Request().Context(), p, c.Param("id"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "contraseña restablecida"})
}
