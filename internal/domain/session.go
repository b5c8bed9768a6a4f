package domain

import "time"

// Session es la vista de la sesion de autenticacion guardada en el medio
// persistente. ExpiresAt nil significa que no hay expiracion declarada.
type Session struct {
	Token     string     `json:"-"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// HasToken indica si hay un token guardado.
func (s Session) HasToken() bool {
	return s.Token != ""
}
