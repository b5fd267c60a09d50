// repositories/storage.go
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced id is absent from the store.
var ErrNotFound = errors.New("record not found")

// Storage is the document-store access layer. One collection per entity
// plus a counters collection for sequence ids. The handle is constructed
// once with an injected database and owns no global state.
type Storage struct {
	db *mongo.Database
}

// NewStorage creates a storage layer over the given database.
func NewStorage(db *mongo.Database) *Storage {
	return &Storage{db: db}
}

func (s *Storage) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// NextSequence atomically increments and returns the counter for an entity
// collection. This is the only operation in the system that must be atomic:
// concurrent creates must never mint the same id, and ids are never reused.
func (s *Storage) NextSequence(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := s.collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}

// ClearAllData wipes every collection, counters included. Admin only.
func (s *Storage) ClearAllData(ctx context.Context) error {
	collections := []string{
		"users", "agents", "clients", "applications",
		"commissions", "documents", "activities", "counters",
	}
	for _, name := range collections {
		if _, err := s.collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}

// mapNotFound translates the driver's no-documents error to ErrNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
