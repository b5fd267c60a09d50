// repositories/application_storage.go
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// CreateApplication inserts an application, minting its id and submission
// timestamp.
func (s *Storage) CreateApplication(ctx context.Context, app models.Application) (models.Application, error) {
	id, err := s.NextSequence(ctx, "applications")
	if err != nil {
		return models.Application{}, err
	}

	app.ID = id
	app.SubmittedAt = time.Now()

	if _, err := s.collection("applications").InsertOne(ctx, app); err != nil {
		return models.Application{}, err
	}

	return app, nil
}

// GetApplicationsByClientID lists a client's own applications.
func (s *Storage) GetApplicationsByClientID(ctx context.Context, clientID int64) ([]models.Application, error) {
	cursor, err := s.collection("applications").Find(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	apps := []models.Application{}
	for cursor.Next(ctx) {
		var app models.Application
		if err := cursor.Decode(&app); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, cursor.Err()
}

// applicationsForClients joins applications over a set of pre-fetched
// clients, newest first.
func (s *Storage) applicationsForClients(ctx context.Context, clients []models.Client) ([]models.ApplicationWithClient, error) {
	if len(clients) == 0 {
		return []models.ApplicationWithClient{}, nil
	}

	byID := make(map[int64]models.Client, len(clients))
	ids := make([]int64, 0, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := s.collection("applications").Find(ctx, bson.M{"clientId": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.ApplicationWithClient{}
	for cursor.Next(ctx) {
		var app models.Application
		if err := cursor.Decode(&app); err != nil {
			return nil, err
		}

		client, ok := byID[app.ClientID]
		if !ok {
			continue
		}
		user, err := s.publicUserByID(ctx, client.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		results = append(results, models.ApplicationWithClient{
			Application: app,
			Client:      models.ClientWithUser{Client: client, User: user},
		})
	}
	return results, cursor.Err()
}

// GetApplicationsByAgentID lists applications of the agent's assigned
// clients, newest first.
func (s *Storage) GetApplicationsByAgentID(ctx context.Context, agentID int64) ([]models.ApplicationWithClient, error) {
	clients, err := s.rawClients(ctx, bson.M{"agentId": agentID})
	if err != nil {
		return nil, err
	}
	return s.applicationsForClients(ctx, clients)
}

// GetApplicationsByAdminID lists applications across the admin's client
// tree, newest first.
func (s *Storage) GetApplicationsByAdminID(ctx context.Context, adminID int64) ([]models.ApplicationWithClient, error) {
	clients, err := s.rawClients(ctx, bson.M{"adminId": adminID})
	if err != nil {
		return nil, err
	}
	return s.applicationsForClients(ctx, clients)
}

// rawClients fetches client rows without joins.
func (s *Storage) rawClients(ctx context.Context, filter bson.M) ([]models.Client, error) {
	cursor, err := s.collection("clients").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	for cursor.Next(ctx) {
		var client models.Client
		if err := cursor.Decode(&client); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, cursor.Err()
}

// GetApplicationByID looks an application up by its sequence id.
func (s *Storage) GetApplicationByID(ctx context.Context, id int64) (models.Application, error) {
	var app models.Application
	err := s.collection("applications").FindOne(ctx, bson.M{"id": id}).Decode(&app)
	if err != nil {
		return models.Application{}, mapNotFound(err)
	}
	return app, nil
}

// UpdateApplicationStatus sets the workflow status. Set membership is
// validated at the handler; no transition ordering is enforced.
func (s *Storage) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	_, err := s.collection("applications").UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}

// UpdateApplicationProgress sets the progress percentage and last action.
func (s *Storage) UpdateApplicationProgress(ctx context.Context, id int64, progress int, lastAction string) error {
	_, err := s.collection("applications").UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"progress": progress, "lastAction": lastAction}},
	)
	return err
}
