package dto

// LoginRequest carries the credentials for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest carries the new password for the current caller.
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// AuthorisationResponse reports a freshly minted bearer token.
type AuthorisationResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"` // always "bearer"
}

// NewAuthorisationResponse wraps a signed token in the response shape.
func NewAuthorisationResponse(token string) AuthorisationResponse {
	return AuthorisationResponse{Token: token, Type: "bearer"}
}
