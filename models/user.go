// models/user.go
package models

import "time"

// User roles. Role is immutable after creation.
const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleClient = "client"
)

// User model. Root identity for every actor in the system; the password
// field always holds a bcrypt hash, never plaintext.
type User struct {
	ID        int64     `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// PublicUser is the wire representation of a user without credentials.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips the credential hash for API responses.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// AdminSummary is the directory entry returned by the admins listing.
type AdminSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ErrorResponse is the error envelope for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a mutation that returns no entity.
type MessageResponse struct {
	Message string `json:"message"`
}
