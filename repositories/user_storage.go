// repositories/user_storage.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/visatrack/visatrack_backend/models"
)

// CreateUser inserts a new user with the next sequence id. The password
// must already be hashed by the caller.
func (s *Storage) CreateUser(ctx context.Context, name, email, passwordHash, role string) (models.User, error) {
	id, err := s.NextSequence(ctx, "users")
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: time.Now(),
	}

	if _, err := s.collection("users").InsertOne(ctx, user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// GetUserByEmail looks a user up by its unique email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, mapNotFound(err)
	}
	return user, nil
}

// GetUserByID looks a user up by its sequence id.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.collection("users").FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		return models.User{}, mapNotFound(err)
	}
	return user, nil
}

// UpdateUserName renames a user.
func (s *Storage) UpdateUserName(ctx context.Context, userID int64, name string) error {
	_, err := s.collection("users").UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$set": bson.M{"name": name}},
	)
	return err
}

// UpdateUserPassword replaces a user's password hash.
func (s *Storage) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := s.collection("users").UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$set": bson.M{"password": passwordHash}},
	)
	return err
}

// DeleteUser removes a user row. Used only as the compensation step when a
// role-row insert fails after the user insert succeeded.
func (s *Storage) DeleteUser(ctx context.Context, userID int64) error {
	_, err := s.collection("users").DeleteOne(ctx, bson.M{"id": userID})
	return err
}

// GetAllAdmins returns the admin directory.
func (s *Storage) GetAllAdmins(ctx context.Context) ([]models.AdminSummary, error) {
	cursor, err := s.collection("users").Find(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	admins := []models.AdminSummary{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		admins = append(admins, models.AdminSummary{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	return admins, cursor.Err()
}

// publicUserByID is the point lookup used by the read-side joins.
func (s *Storage) publicUserByID(ctx context.Context, id int64) (models.PublicUser, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}
