// repositories/document_storage.go
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// CreateDocument inserts a document record. The caller validates the URL
// and ownership chain before this write.
func (s *Storage) CreateDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	id, err := s.NextSequence(ctx, "documents")
	if err != nil {
		return models.Document{}, err
	}

	doc.ID = id
	doc.UploadedAt = time.Now()
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPending
	}

	if _, err := s.collection("documents").InsertOne(ctx, doc); err != nil {
		return models.Document{}, err
	}

	return doc, nil
}

// documentsByFilter lists documents matching a filter, newest first, with
// the uploading user joined.
func (s *Storage) documentsByFilter(ctx context.Context, filter bson.M) ([]models.DocumentWithUploader, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := s.collection("documents").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.DocumentWithUploader{}
	for cursor.Next(ctx) {
		var doc models.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		uploader, err := s.publicUserByID(ctx, doc.UploadedByID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		results = append(results, models.DocumentWithUploader{Document: doc, UploadedBy: uploader})
	}
	return results, cursor.Err()
}

// GetDocumentsByOwner lists documents belonging to one owner entity.
func (s *Storage) GetDocumentsByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.DocumentWithUploader, error) {
	return s.documentsByFilter(ctx, bson.M{"ownerType": ownerType, "ownerId": ownerID})
}

// GetDocumentsByAgentClients lists documents of all clients assigned to
// an agent.
func (s *Storage) GetDocumentsByAgentClients(ctx context.Context, agentID int64) ([]models.DocumentWithUploader, error) {
	clients, err := s.rawClients(ctx, bson.M{"agentId": agentID})
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return []models.DocumentWithUploader{}, nil
	}

	ids := make([]int64, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}

	return s.documentsByFilter(ctx, bson.M{
		"ownerType": models.RoleClient,
		"ownerId":   bson.M{"$in": ids},
	})
}

// GetDocumentsByAdminID lists every document in the admin's ownership
// tree: their clients', their agents', and their own.
func (s *Storage) GetDocumentsByAdminID(ctx context.Context, adminID int64) ([]models.DocumentWithUploader, error) {
	clients, err := s.rawClients(ctx, bson.M{"adminId": adminID})
	if err != nil {
		return nil, err
	}
	clientIDs := make([]int64, 0, len(clients))
	for _, c := range clients {
		clientIDs = append(clientIDs, c.ID)
	}

	agents, err := s.collection("agents").Find(ctx, bson.M{"adminId": adminID})
	if err != nil {
		return nil, err
	}
	defer agents.Close(ctx)

	agentIDs := []int64{}
	for agents.Next(ctx) {
		var agent models.Agent
		if err := agents.Decode(&agent); err != nil {
			return nil, err
		}
		agentIDs = append(agentIDs, agent.ID)
	}
	if err := agents.Err(); err != nil {
		return nil, err
	}

	return s.documentsByFilter(ctx, bson.M{
		"$or": []bson.M{
			{"ownerType": models.RoleClient, "ownerId": bson.M{"$in": clientIDs}},
			{"ownerType": models.RoleAgent, "ownerId": bson.M{"$in": agentIDs}},
			{"ownerType": models.RoleAdmin, "ownerId": adminID},
		},
	})
}

// GetDocumentByID looks a document up by its sequence id.
func (s *Storage) GetDocumentByID(ctx context.Context, id int64) (models.Document, error) {
	var doc models.Document
	err := s.collection("documents").FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		return models.Document{}, mapNotFound(err)
	}
	return doc, nil
}

// UpdateDocumentStatus moves a document through review. Notes are only
// written when provided.
func (s *Storage) UpdateDocumentStatus(ctx context.Context, id int64, status, notes string) error {
	set := bson.M{"status": status}
	if notes != "" {
		set["notes"] = notes
	}
	_, err := s.collection("documents").UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
	)
	return err
}
