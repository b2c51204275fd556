package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrWrongTokenType     = errors.New("tipo de token inválido")
	ErrMalformedToken     = errors.New("credenciales inválidas")
	ErrUserDisabled       = errors.New("usuario desactivado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrRateLimited        = errors.New("demasiadas solicitudes")

	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUserExists        = errors.New("ya existe un usuario con este email")
	ErrRootAdminReserved = errors.New("no se puede modificar el usuario administrador principal")
	ErrSelfDeletion      = errors.New("no puede eliminar su propio usuario")
	ErrWeakPassword      = errors.New("la contraseña debe tener al menos 8 caracteres")

	ErrInvalidID  = errors.New("identificador inválido")
	ErrInvalidRUT = errors.New("RUT inválido")
	ErrRUTExists  = errors.New("ya existe un NNA con este RUT")

	ErrNNANotFound           = errors.New("NNA no encontrado")
	ErrIntervencionNotFound  = errors.New("intervención no encontrada")
	ErrTallerNotFound        = errors.New("taller no encontrado")
	ErrTallerLleno           = errors.New("taller ha alcanzado su capacidad máxima")
	ErrParticipanteInscrito  = errors.New("NNA ya está inscrito en este taller")
	ErrSeguimientoNotFound   = errors.New("seguimiento no encontrado")
	ErrAlertaNotFound        = errors.New("alerta no encontrada")
	ErrAlertaExists          = errors.New("ya existe una alerta activa para esta entidad")
	ErrMedidaNotFound        = errors.New("medida no encontrada")
	ErrRestriccionNotFound   = errors.New("restricción no encontrada")
	ErrRedApoyoNotFound      = errors.New("miembro de red de apoyo no encontrado")
	ErrPlanificacionNotFound = errors.New("actividad de planificación no encontrada")
	ErrNivelInvalido         = errors.New("nivel de confiabilidad inválido")
)
