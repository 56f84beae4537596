package dto

// ── auth DTOs ──

// RegisterRequest creates an account. DeviceToken is optional and registers
// the caller's device for push right away.
type RegisterRequest struct {
	Name        string `json:"name"         binding:"required,min=2,max=100"`
	Email       string `json:"email"        binding:"required,email,max=100"`
	Password    string `json:"password"     binding:"required,min=8,max=72"`
	DeviceToken string `json:"device_token" binding:"omitempty,max=255"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email       string `json:"email"        binding:"required,email"`
	Password    string `json:"password"     binding:"required"`
	DeviceToken string `json:"device_token" binding:"omitempty,max=255"`
}

// LogoutRequest ends the session. The device token, if given, stops receiving pushes.
type LogoutRequest struct {
	DeviceToken string `json:"device_token" binding:"omitempty,max=255"`
}

// SaveDeviceTokenRequest registers a push token.
type SaveDeviceTokenRequest struct {
	Token string `json:"token" binding:"required,max=255"`
}

// DeleteAccountRequest removes the caller's account and all of its data.
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ── auth responses ──

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
