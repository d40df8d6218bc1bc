package auth

// RoleAdmin is the only role issued today: the operator of the desk.
const RoleAdmin = "admin"

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
