// models/client.go
package models

// Client model. AdminID is fixed at creation. AgentID is nullable and may
// only ever point at an agent under the same admin.
type Client struct {
	ID             int64    `json:"id" bson:"id"`
	UserID         int64    `json:"userId" bson:"userId"`
	AdminID        int64    `json:"adminId" bson:"adminId"`
	AgentID        *int64   `json:"agentId" bson:"agentId,omitempty"`
	PassportNumber string   `json:"passportNumber,omitempty" bson:"passportNumber,omitempty"`
	DateOfBirth    string   `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	CurrentAddress string   `json:"currentAddress,omitempty" bson:"currentAddress,omitempty"`
	Phone          string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Nationality    string   `json:"nationality,omitempty" bson:"nationality,omitempty"`
	Education      string   `json:"education,omitempty" bson:"education,omitempty"`
	FeeAmount      *float64 `json:"feeAmount,omitempty" bson:"feeAmount,omitempty"`
}

// ClientWithUser joins the client row with its user identity.
type ClientWithUser struct {
	Client
	User PublicUser `json:"user"`
}

// ClientWithRelations additionally carries the assigned agent, if any.
type ClientWithRelations struct {
	Client
	User  PublicUser     `json:"user"`
	Agent *AgentWithUser `json:"agent,omitempty"`
}

// CreateClientRequest provisions a client account under the calling agent.
// The optional visa type seeds the client's initial application.
type CreateClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	VisaType string `json:"visaType,omitempty"`
}

// CreatedClientResponse returns the new client together with the one-time
// temporary password.
type CreatedClientResponse struct {
	Client
	User              PublicUser `json:"user"`
	TemporaryPassword string     `json:"temporaryPassword"`
}

// UpdateClientRequest is the explicit partial-update payload for a client
// profile. Nil fields are left untouched. AgentID changes are validated
// against the same-admin constraint before merge.
type UpdateClientRequest struct {
	Name           *string  `json:"name,omitempty"`
	PassportNumber *string  `json:"passportNumber,omitempty"`
	DateOfBirth    *string  `json:"dateOfBirth,omitempty"`
	CurrentAddress *string  `json:"currentAddress,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Nationality    *string  `json:"nationality,omitempty"`
	Education      *string  `json:"education,omitempty"`
	FeeAmount      *float64 `json:"feeAmount,omitempty"`
	AgentID        *int64   `json:"agentId,omitempty"`
}

// ChooseAgentRequest is the client self-service agent selection payload.
type ChooseAgentRequest struct {
	AgentID int64 `json:"agentId" validate:"required"`
}
