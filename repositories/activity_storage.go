// repositories/activity_storage.go
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// Display-time feed limits. There is no server-side retention or
// read/unread tracking.
const (
	adminFeedLimit = 100
	userFeedLimit  = 50
)

// CreateActivity appends an activity row. Rows are never updated or
// deleted afterwards.
func (s *Storage) CreateActivity(ctx context.Context, activity models.Activity) (models.Activity, error) {
	id, err := s.NextSequence(ctx, "activities")
	if err != nil {
		return models.Activity{}, err
	}

	activity.ID = id
	activity.CreatedAt = time.Now()

	if _, err := s.collection("activities").InsertOne(ctx, activity); err != nil {
		return models.Activity{}, err
	}

	return activity, nil
}

// activitiesByFilter lists activities matching a filter, newest first,
// with the acting user joined.
func (s *Storage) activitiesByFilter(ctx context.Context, filter bson.M, limit int64) ([]models.ActivityWithActor, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection("activities").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.ActivityWithActor{}
	for cursor.Next(ctx) {
		var activity models.Activity
		if err := cursor.Decode(&activity); err != nil {
			return nil, err
		}

		actor, err := s.publicUserByID(ctx, activity.ActorID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		results = append(results, models.ActivityWithActor{Activity: activity, Actor: actor})
	}
	return results, cursor.Err()
}

// GetActivitiesForAdmin returns the admin's feed: rows whose actor is the
// admin themselves. Deliberately narrower than the whole ownership tree.
func (s *Storage) GetActivitiesForAdmin(ctx context.Context, adminUserID int64) ([]models.ActivityWithActor, error) {
	return s.activitiesByFilter(ctx, bson.M{"actorId": adminUserID}, adminFeedLimit)
}

// GetActivitiesForRole returns the agent/client feed: rows where the user
// is the actor or the named target entity.
func (s *Storage) GetActivitiesForRole(ctx context.Context, role string, userID int64) ([]models.ActivityWithActor, error) {
	filter := bson.M{"actorId": userID}

	switch role {
	case models.RoleAgent:
		agent, err := s.GetAgentByUserID(ctx, userID)
		if err == nil {
			filter = bson.M{"$or": []bson.M{
				{"actorId": userID},
				{"targetType": models.RoleAgent, "targetId": agent.ID},
			}}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	case models.RoleClient:
		client, err := s.GetClientByUserID(ctx, userID)
		if err == nil {
			filter = bson.M{"$or": []bson.M{
				{"actorId": userID},
				{"targetType": models.RoleClient, "targetId": client.ID},
			}}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return s.activitiesByFilter(ctx, filter, userFeedLimit)
}
