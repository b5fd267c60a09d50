// models/application.go
package models

import "time"

// Application workflow statuses. Transitions are deliberately free-form:
// any authorized actor may set any member of this set directly.
const (
	ApplicationStatusDocumentReview = "Document Review"
	ApplicationStatusSubmitted      = "Submitted"
	ApplicationStatusInterview      = "Interview"
	ApplicationStatusApproved       = "Approved"
	ApplicationStatusRejected       = "Rejected"
)

// IsValidApplicationStatus reports set membership; ordering is not checked.
func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusDocumentReview, ApplicationStatusSubmitted,
		ApplicationStatusInterview, ApplicationStatusApproved,
		ApplicationStatusRejected:
		return true
	}
	return false
}

// Application model. Progress is an independent 0-100 field settable by the
// client; it is not derived from status.
type Application struct {
	ID            int64     `json:"id" bson:"id"`
	ClientID      int64     `json:"clientId" bson:"clientId"`
	VisaType      string    `json:"visaType" bson:"visaType"`
	TargetCountry string    `json:"targetCountry" bson:"targetCountry"`
	Purpose       string    `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Status        string    `json:"status" bson:"status"`
	Progress      int       `json:"progress" bson:"progress"`
	SubmittedAt   time.Time `json:"submittedAt" bson:"submittedAt"`
	LastAction    string    `json:"lastAction,omitempty" bson:"lastAction,omitempty"`
}

// ApplicationWithClient joins the application with its client for the
// agent/admin listings.
type ApplicationWithClient struct {
	Application
	Client ClientWithUser `json:"client"`
}

// CreateApplicationRequest is the client self-service application payload.
type CreateApplicationRequest struct {
	VisaType      string `json:"visaType" validate:"required"`
	TargetCountry string `json:"targetCountry" validate:"required"`
	Purpose       string `json:"purpose,omitempty"`
}

// UpdateApplicationStatusRequest sets the workflow status.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateApplicationProgressRequest sets the progress percentage and notes
// the action that moved it.
type UpdateApplicationProgressRequest struct {
	Progress   *int   `json:"progress" validate:"required"`
	LastAction string `json:"lastAction,omitempty"`
}

// AssignAgentRequest attaches an agent to the application's client.
type AssignAgentRequest struct {
	AgentID int64 `json:"agentId" validate:"required"`
}
