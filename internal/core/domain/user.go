package domain

import "time"

// User models a system account. The password hash never leaves the server.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Nombre       string     `json:"nombre"`
	Rol          string     `json:"rol"`
	Activo       bool       `json:"activo"`
	PasswordHash string     `json:"-"`
	UltimoAcceso *time.Time `json:"ultimo_acceso,omitempty"`
	CreadoEn     time.Time  `json:"creado_en"`
	ActualizadoEn *time.Time `json:"actualizado_en,omitempty"`
}

// Principal is the identity reconstructed per request from a validated
// access token. It is never persisted.
type Principal struct {
	UserID string
	Email  string
	Rol    string
}

// UserFilter narrows account listings.
type UserFilter struct {
	Rol    string
	Activo *bool
	Search string
	Skip   int64
	Limit  int64
}
