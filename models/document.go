// models/document.go
package models

import "time"

// Document review statuses.
const (
	DocumentStatusPending     = "Pending"
	DocumentStatusUnderReview = "Under Review"
	DocumentStatusApproved    = "Approved"
	DocumentStatusRejected    = "Rejected"
)

// IsValidDocumentStatus reports set membership.
func IsValidDocumentStatus(status string) bool {
	switch status {
	case DocumentStatusPending, DocumentStatusUnderReview,
		DocumentStatusApproved, DocumentStatusRejected:
		return true
	}
	return false
}

// Document model. Path is an external http(s) URL; nothing is stored
// locally. The URL scheme is enforced at write time.
type Document struct {
	ID           int64     `json:"id" bson:"id"`
	OwnerType    string    `json:"ownerType" bson:"ownerType"`
	OwnerID      int64     `json:"ownerId" bson:"ownerId"`
	UploadedByID int64     `json:"uploadedById" bson:"uploadedById"`
	Name         string    `json:"name" bson:"name"`
	Type         string    `json:"type" bson:"type"`
	Path         string    `json:"path" bson:"path"`
	Status       string    `json:"status" bson:"status"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// DocumentWithUploader joins the document with the uploading user.
type DocumentWithUploader struct {
	Document
	UploadedBy PublicUser `json:"uploadedBy"`
}

// CreateDocumentRequest registers an external document URL for an owner.
type CreateDocumentRequest struct {
	OwnerType string `json:"ownerType" validate:"required,oneof=admin agent client"`
	OwnerID   int64  `json:"ownerId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Path      string `json:"path" validate:"required"`
}

// UpdateDocumentStatusRequest moves a document through review, with
// optional free-text notes.
type UpdateDocumentStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}
