package domain

// AuthResponse is returned by the login, register and refresh endpoints.
// RefreshToken and User are optional: refresh responses may omit both, and
// some deployments only carry identity inside the access token's claims.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}
