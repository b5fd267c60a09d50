// repositories/commission_storage.go
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// CreateCommission inserts a payout record. Status defaults to Pending.
func (s *Storage) CreateCommission(ctx context.Context, agentID, clientID int64, amount, status string) (models.Commission, error) {
	id, err := s.NextSequence(ctx, "commissions")
	if err != nil {
		return models.Commission{}, err
	}

	if status == "" {
		status = models.CommissionStatusPending
	}

	commission := models.Commission{
		ID:       id,
		AgentID:  agentID,
		ClientID: clientID,
		Amount:   amount,
		Status:   status,
		Date:     time.Now(),
	}

	if _, err := s.collection("commissions").InsertOne(ctx, commission); err != nil {
		return models.Commission{}, err
	}

	return commission, nil
}

// GetCommissionsByAgentID lists an agent's commissions with the client
// each one is tied to, newest first.
func (s *Storage) GetCommissionsByAgentID(ctx context.Context, agentID int64) ([]models.CommissionWithClient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.collection("commissions").Find(ctx, bson.M{"agentId": agentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.CommissionWithClient{}
	for cursor.Next(ctx) {
		var commission models.Commission
		if err := cursor.Decode(&commission); err != nil {
			return nil, err
		}

		clientRow, err := s.clientWithUser(ctx, commission.ClientID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		results = append(results, models.CommissionWithClient{Commission: commission, Client: clientRow})
	}
	return results, cursor.Err()
}

// GetCommissionsByAdminID lists commissions owed by the admin's agents,
// joined with agent and client, newest first.
func (s *Storage) GetCommissionsByAdminID(ctx context.Context, adminID int64) ([]models.CommissionWithRelations, error) {
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
	if len(agentIDs) == 0 {
		return []models.CommissionWithRelations{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.collection("commissions").Find(ctx, bson.M{"agentId": bson.M{"$in": agentIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.CommissionWithRelations{}
	for cursor.Next(ctx) {
		var commission models.Commission
		if err := cursor.Decode(&commission); err != nil {
			return nil, err
		}

		agentRow, err := s.agentWithUser(ctx, commission.AgentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		clientRow, err := s.clientWithUser(ctx, commission.ClientID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		results = append(results, models.CommissionWithRelations{
			Commission: commission,
			Agent:      agentRow,
			Client:     clientRow,
		})
	}
	return results, cursor.Err()
}

// clientWithUser joins a single client with its user identity.
func (s *Storage) clientWithUser(ctx context.Context, clientID int64) (models.ClientWithUser, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return models.ClientWithUser{}, err
	}
	user, err := s.publicUserByID(ctx, client.UserID)
	if err != nil {
		return models.ClientWithUser{}, err
	}
	return models.ClientWithUser{Client: client, User: user}, nil
}

// GetCommissionByID looks a commission up by its sequence id.
func (s *Storage) GetCommissionByID(ctx context.Context, id int64) (models.Commission, error) {
	var commission models.Commission
	err := s.collection("commissions").FindOne(ctx, bson.M{"id": id}).Decode(&commission)
	if err != nil {
		return models.Commission{}, mapNotFound(err)
	}
	return commission, nil
}

// UpdateCommissionStatus sets the payout status.
func (s *Storage) UpdateCommissionStatus(ctx context.Context, id int64, status string) error {
	_, err := s.collection("commissions").UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}
