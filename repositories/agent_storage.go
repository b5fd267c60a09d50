// repositories/agent_storage.go
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// CreateAgent inserts the role row for an agent user. The admin link is
// fixed here and never reassigned afterwards.
func (s *Storage) CreateAgent(ctx context.Context, userID, adminID int64) (models.Agent, error) {
	id, err := s.NextSequence(ctx, "agents")
	if err != nil {
		return models.Agent{}, err
	}

	agent := models.Agent{
		ID:             id,
		UserID:         userID,
		AdminID:        adminID,
		CommissionRate: "10%",
		Status:         models.AgentStatusActive,
	}

	if _, err := s.collection("agents").InsertOne(ctx, agent); err != nil {
		return models.Agent{}, err
	}

	return agent, nil
}

// GetAgentByUserID resolves the acting agent from a session's user id.
func (s *Storage) GetAgentByUserID(ctx context.Context, userID int64) (models.Agent, error) {
	var agent models.Agent
	err := s.collection("agents").FindOne(ctx, bson.M{"userId": userID}).Decode(&agent)
	if err != nil {
		return models.Agent{}, mapNotFound(err)
	}
	return agent, nil
}

// GetAgentByID looks an agent up by its sequence id.
func (s *Storage) GetAgentByID(ctx context.Context, id int64) (models.Agent, error) {
	var agent models.Agent
	err := s.collection("agents").FindOne(ctx, bson.M{"id": id}).Decode(&agent)
	if err != nil {
		return models.Agent{}, mapNotFound(err)
	}
	return agent, nil
}

// GetAgentsByAdminID lists an admin's agents with their user identities.
// ActiveClients is derived with a count query at read time.
func (s *Storage) GetAgentsByAdminID(ctx context.Context, adminID int64) ([]models.AgentWithUser, error) {
	cursor, err := s.collection("agents").Find(ctx, bson.M{"adminId": adminID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.AgentWithUser{}
	for cursor.Next(ctx) {
		var agent models.Agent
		if err := cursor.Decode(&agent); err != nil {
			return nil, err
		}

		user, err := s.publicUserByID(ctx, agent.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		count, err := s.collection("clients").CountDocuments(ctx, bson.M{"agentId": agent.ID})
		if err != nil {
			return nil, err
		}
		agent.ActiveClients = count

		results = append(results, models.AgentWithUser{Agent: agent, User: user})
	}
	return results, cursor.Err()
}

// UpdateAgentStatus toggles an agent's Active/Inactive status.
func (s *Storage) UpdateAgentStatus(ctx context.Context, agentID int64, status string) error {
	_, err := s.collection("agents").UpdateOne(ctx,
		bson.M{"id": agentID},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}

// UpdateAgentCommission sets the commission terms. A nil amount clears the
// fixed fee.
func (s *Storage) UpdateAgentCommission(ctx context.Context, agentID int64, rate string, amount *float64) error {
	update := bson.M{"$set": bson.M{"commissionRate": rate}}
	if amount != nil {
		update["$set"].(bson.M)["commissionAmount"] = *amount
	} else {
		update["$unset"] = bson.M{"commissionAmount": ""}
	}

	_, err := s.collection("agents").UpdateOne(ctx, bson.M{"id": agentID}, update)
	return err
}

// UpdateAgentProfile merges the non-nil fields of a partial update and
// returns the updated agent. The Name field is handled by the caller
// against the users collection.
func (s *Storage) UpdateAgentProfile(ctx context.Context, agentID int64, req models.UpdateAgentRequest) (models.Agent, error) {
	set := bson.M{}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.CompanyName != nil {
		set["companyName"] = *req.CompanyName
	}
	if req.LicenseNumber != nil {
		set["licenseNumber"] = *req.LicenseNumber
	}
	if req.CommissionRate != nil {
		set["commissionRate"] = *req.CommissionRate
	}
	if req.CommissionAmount != nil {
		set["commissionAmount"] = *req.CommissionAmount
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"id": agentID}

	var agent models.Agent
	var err error
	if len(set) == 0 {
		err = s.collection("agents").FindOne(ctx, filter).Decode(&agent)
	} else {
		err = s.collection("agents").FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&agent)
	}
	if err != nil {
		return models.Agent{}, mapNotFound(err)
	}
	return agent, nil
}
