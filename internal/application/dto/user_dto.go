package dto

// UserResponse perfil del usuario.
type UserResponse struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	NombreCompleto string `json:"nombreCompleto"`
	Email          string `json:"email"`
	Direccion      string `json:"direccion"`
	Telefono       string `json:"telefono,omitempty"`
	Role           string `json:"role,omitempty"`
}

// UpdateProfileRequest actualización parcial del perfil (campos ausentes no se modifican).
type UpdateProfileRequest struct {
	Nombre    *string `json:"nombre"`
	Apellido  *string `json:"apellido"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
}

// SessionResponse token de sesión del storefront.
type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId,omitempty"`
}

// SessionRequest cuerpo de POST /api/session (userId vacío = sesión anónima).
type SessionRequest struct {
	UserID string `json:"userId"`
}
