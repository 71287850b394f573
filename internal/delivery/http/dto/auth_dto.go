package dto

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  *UserOutput `json:"user"`
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Platform string `json:"platform"`
}

// UserOutput represents user data in API responses
type UserOutput struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Platform string `json:"platform"`
}
