package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, ok := statusForDomainError(err); ok {
		return code, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "error interno del servidor"
}

func statusForDomainError(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrWrongTokenType),
		errors.Is(err, domain.ErrMalformedToken):
		return http.StatusUnauthorized, true

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUserDisabled),
		errors.Is(err, domain.ErrRootAdminReserved),
		errors.Is(err, domain.ErrSelfDeletion):
		return http.StatusForbidden, true

	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, true

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNNANotFound),
		errors.Is(err, domain.ErrIntervencionNotFound),
		errors.Is(err, domain.ErrTallerNotFound),
		errors.Is(err, domain.ErrSeguimientoNotFound),
		errors.Is(err, domain.ErrAlertaNotFound),
		errors.Is(err, domain.ErrMedidaNotFound),
		errors.Is(err, domain.ErrRestriccionNotFound),
		errors.Is(err, domain.ErrRedApoyoNotFound),
		errors.Is(err, domain.ErrPlanificacionNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrRUTExists),
		errors.Is(err, domain.ErrAlertaExists),
		errors.Is(err, domain.ErrParticipanteInscrito),
		errors.Is(err, domain.ErrTallerLleno):
		return http.StatusConflict, true

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidRUT),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrNivelInvalido):
		return http.StatusBadRequest, true
	}
	return 0, false
}
