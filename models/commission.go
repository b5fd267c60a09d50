// models/commission.go
package models

import "time"

// Commission payout statuses.
const (
	CommissionStatusPending  = "Pending"
	CommissionStatusApproved = "Approved"
	CommissionStatusPaid     = "Paid"
	CommissionStatusRejected = "Rejected"
)

// IsValidCommissionStatus reports set membership.
func IsValidCommissionStatus(status string) bool {
	switch status {
	case CommissionStatusPending, CommissionStatusApproved,
		CommissionStatusPaid, CommissionStatusRejected:
		return true
	}
	return false
}

// Commission model. Amount is stored as the opaque string the creator
// supplied; totals are parsed out of it at query time.
type Commission struct {
	ID       int64     `json:"id" bson:"id"`
	AgentID  int64     `json:"agentId" bson:"agentId"`
	ClientID int64     `json:"clientId" bson:"clientId"`
	Amount   string    `json:"amount" bson:"amount"`
	Status   string    `json:"status" bson:"status"`
	Date     time.Time `json:"date" bson:"date"`
}

// CommissionWithClient joins a commission with its client for the agent view.
type CommissionWithClient struct {
	Commission
	Client ClientWithUser `json:"client"`
}

// CommissionWithRelations joins agent and client for the admin view.
type CommissionWithRelations struct {
	Commission
	Agent  AgentWithUser  `json:"agent"`
	Client ClientWithUser `json:"client"`
}

// CommissionTotals are computed by summation over the filtered set at query
// time; nothing is maintained incrementally.
type CommissionTotals struct {
	Pending  float64 `json:"pending"`
	Approved float64 `json:"approved"`
	Paid     float64 `json:"paid"`
}

// UpdateCommissionStatusRequest sets the payout status. Admin only.
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
