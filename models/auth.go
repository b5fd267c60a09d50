// models/auth.go
package models

// SignupRequest is the self-registration payload. Agents and clients must
// name the admin they work under; admins register standalone.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin agent client"`
	AdminID  *int64 `json:"adminId,omitempty"`
}

// LoginRequest requires the role alongside the credentials; a correct
// password with the wrong role is rejected the same way as a bad password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin agent client"`
}

// AuthResponse carries the session token alongside the public user.
type AuthResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// ChangePasswordRequest resets a managed account's password.
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
