// models/agent.go
package models

// Agent statuses.
const (
	AgentStatusActive   = "Active"
	AgentStatusInactive = "Inactive"
)

// Agent model. One per user with role "agent". AdminID is fixed at creation
// and never reassigned. ActiveClients is derived at read time, not stored
// authoritatively.
type Agent struct {
	ID               int64    `json:"id" bson:"id"`
	UserID           int64    `json:"userId" bson:"userId"`
	AdminID          int64    `json:"adminId" bson:"adminId"`
	CommissionRate   string   `json:"commissionRate" bson:"commissionRate"`
	CommissionAmount *float64 `json:"commissionAmount" bson:"commissionAmount,omitempty"`
	Status           string   `json:"status" bson:"status"`
	ActiveClients    int64    `json:"activeClients" bson:"activeClients"`
	Phone            string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Address          string   `json:"address,omitempty" bson:"address,omitempty"`
	CompanyName      string   `json:"companyName,omitempty" bson:"companyName,omitempty"`
	LicenseNumber    string   `json:"licenseNumber,omitempty" bson:"licenseNumber,omitempty"`
}

// AgentWithUser joins the agent row with its user identity for listings.
type AgentWithUser struct {
	Agent
	User PublicUser `json:"user"`
}

// CreateAgentRequest provisions an agent account under the calling admin.
// The temporary password is minted server-side and surfaced once.
type CreateAgentRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// CreatedAgentResponse returns the new agent together with the one-time
// temporary password.
type CreatedAgentResponse struct {
	Agent
	User              PublicUser `json:"user"`
	TemporaryPassword string     `json:"temporaryPassword"`
}

// UpdateAgentRequest is the explicit partial-update payload for an agent
// profile. Nil fields are left untouched.
type UpdateAgentRequest struct {
	Name             *string  `json:"name,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Address          *string  `json:"address,omitempty"`
	CompanyName      *string  `json:"companyName,omitempty"`
	LicenseNumber    *string  `json:"licenseNumber,omitempty"`
	CommissionRate   *string  `json:"commissionRate,omitempty"`
	CommissionAmount *float64 `json:"commissionAmount,omitempty"`
	Status           *string  `json:"status,omitempty"`
}

// UpdateAgentStatusRequest toggles an agent between Active and Inactive.
type UpdateAgentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive"`
}

// UpdateAgentCommissionRequest sets the commission terms for an agent.
// Amount is optional; a nil amount clears the fixed fee.
type UpdateAgentCommissionRequest struct {
	CommissionRate   string   `json:"commissionRate" validate:"required"`
	CommissionAmount *float64 `json:"commissionAmount,omitempty"`
}
