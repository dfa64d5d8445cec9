package models

// AuthUser describes the authenticated principal
type AuthUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string   `json:"token"` // JWT bearer token
	User  AuthUser `json:"user"`
}
