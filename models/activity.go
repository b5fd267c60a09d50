// models/activity.go
package models

import "time"

// Activity type tags. Every mutating action appends exactly one row.
const (
	ActivityApplicationSubmitted = "application_submitted"
	ActivityApplicationUpdated   = "application_updated"
	ActivityAgentAssigned        = "agent_assigned"
	ActivityDocumentUploaded     = "document_uploaded"
	ActivityDocumentReviewed     = "document_reviewed"
	ActivityCommissionCreated    = "commission_created"
	ActivityProfileUpdated       = "profile_updated"
	ActivityStatusChanged        = "status_changed"
)

// Activity model. Append-only; rows are never updated or deleted.
type Activity struct {
	ID           int64                  `json:"id" bson:"id"`
	ActorID      int64                  `json:"actorId" bson:"actorId"`
	ActorRole    string                 `json:"actorRole" bson:"actorRole"`
	TargetType   string                 `json:"targetType" bson:"targetType"`
	TargetID     int64                  `json:"targetId" bson:"targetId"`
	ActivityType string                 `json:"activityType" bson:"activityType"`
	Description  string                 `json:"description" bson:"description"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"createdAt" bson:"createdAt"`
}

// ActivityWithActor joins the activity with the acting user for the feed.
type ActivityWithActor struct {
	Activity
	Actor PublicUser `json:"actor"`
}
