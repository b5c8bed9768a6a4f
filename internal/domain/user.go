package domain

type User struct {
	ID       int    `json:"idUsuario"`
	Name     string `json:"nombre"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"rol,omitempty"`
	IsActive bool   `json:"activo,omitempty"`
}
