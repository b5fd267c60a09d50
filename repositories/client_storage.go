// repositories/client_storage.go
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// CreateClient inserts the role row for a client user. The admin link is
// fixed here; the agent link is optional and mutable later.
func (s *Storage) CreateClient(ctx context.Context, userID, adminID int64, agentID *int64) (models.Client, error) {
	id, err := s.NextSequence(ctx, "clients")
	if err != nil {
		return models.Client{}, err
	}

	client := models.Client{
		ID:      id,
		UserID:  userID,
		AdminID: adminID,
		AgentID: agentID,
	}

	if _, err := s.collection("clients").InsertOne(ctx, client); err != nil {
		return models.Client{}, err
	}

	return client, nil
}

// GetClientByUserID resolves the acting client from a session's user id.
func (s *Storage) GetClientByUserID(ctx context.Context, userID int64) (models.Client, error) {
	var client models.Client
	err := s.collection("clients").FindOne(ctx, bson.M{"userId": userID}).Decode(&client)
	if err != nil {
		return models.Client{}, mapNotFound(err)
	}
	return client, nil
}

// GetClientByID looks a client up by its sequence id.
func (s *Storage) GetClientByID(ctx context.Context, id int64) (models.Client, error) {
	var client models.Client
	err := s.collection("clients").FindOne(ctx, bson.M{"id": id}).Decode(&client)
	if err != nil {
		return models.Client{}, mapNotFound(err)
	}
	return client, nil
}

// GetClientsByAgentID lists the clients assigned to an agent.
func (s *Storage) GetClientsByAgentID(ctx context.Context, agentID int64) ([]models.ClientWithUser, error) {
	cursor, err := s.collection("clients").Find(ctx, bson.M{"agentId": agentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.ClientWithUser{}
	for cursor.Next(ctx) {
		var client models.Client
		if err := cursor.Decode(&client); err != nil {
			return nil, err
		}

		user, err := s.publicUserByID(ctx, client.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		results = append(results, models.ClientWithUser{Client: client, User: user})
	}
	return results, cursor.Err()
}

// GetClientsByAdminID lists an admin's clients with user identities and the
// assigned agent, if any.
func (s *Storage) GetClientsByAdminID(ctx context.Context, adminID int64) ([]models.ClientWithRelations, error) {
	cursor, err := s.collection("clients").Find(ctx, bson.M{"adminId": adminID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.ClientWithRelations{}
	for cursor.Next(ctx) {
		var client models.Client
		if err := cursor.Decode(&client); err != nil {
			return nil, err
		}

		user, err := s.publicUserByID(ctx, client.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		row := models.ClientWithRelations{Client: client, User: user}

		if client.AgentID != nil {
			if agentRow, err := s.agentWithUser(ctx, *client.AgentID); err == nil {
				row.Agent = &agentRow
			} else if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}

		results = append(results, row)
	}
	return results, cursor.Err()
}

// agentWithUser joins a single agent with its user identity.
func (s *Storage) agentWithUser(ctx context.Context, agentID int64) (models.AgentWithUser, error) {
	agent, err := s.GetAgentByID(ctx, agentID)
	if err != nil {
		return models.AgentWithUser{}, err
	}
	user, err := s.publicUserByID(ctx, agent.UserID)
	if err != nil {
		return models.AgentWithUser{}, err
	}
	return models.AgentWithUser{Agent: agent, User: user}, nil
}

// AssignAgentToClient sets a client's agent link. Same-admin validation is
// the caller's responsibility; this is a plain write.
func (s *Storage) AssignAgentToClient(ctx context.Context, clientID, agentID int64) error {
	_, err := s.collection("clients").UpdateOne(ctx,
		bson.M{"id": clientID},
		bson.M{"$set": bson.M{"agentId": agentID}},
	)
	return err
}

// UpdateClientProfile merges the non-nil fields of a partial update and
// returns the updated client. Name and AgentID are handled by the caller.
func (s *Storage) UpdateClientProfile(ctx context.Context, clientID int64, req models.UpdateClientRequest) (models.Client, error) {
	set := bson.M{}
	if req.PassportNumber != nil {
		set["passportNumber"] = *req.PassportNumber
	}
	if req.DateOfBirth != nil {
		set["dateOfBirth"] = *req.DateOfBirth
	}
	if req.CurrentAddress != nil {
		set["currentAddress"] = *req.CurrentAddress
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Nationality != nil {
		set["nationality"] = *req.Nationality
	}
	if req.Education != nil {
		set["education"] = *req.Education
	}
	if req.FeeAmount != nil {
		set["feeAmount"] = *req.FeeAmount
	}
	if req.AgentID != nil {
		set["agentId"] = *req.AgentID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"id": clientID}

	var client models.Client
	var err error
	if len(set) == 0 {
		err = s.collection("clients").FindOne(ctx, filter).Decode(&client)
	} else {
		err = s.collection("clients").FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&client)
	}
	if err != nil {
		return models.Client{}, mapNotFound(err)
	}
	return client, nil
}
