package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// MongoOperatorCollection implements OperatorStore for MongoDB
type MongoOperatorCollection struct {
	Collection *mongo.Collection
}

// FindOperatorByUsername finds an operator by username
func (c *MongoOperatorCollection) FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var op models.Operator
	err := c.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&op)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return &op, nil
}

// StaticOperators serves a fixed set of operators, typically the single
// account configured through the environment.
type StaticOperators map[string]models.Operator

// FindOperatorByUsername returns the configured operator with that name.
func (s StaticOperators) FindOperatorByUsername(_ context.Context, username string) (*models.Operator, error) {
	op, ok := s[username]
	if !ok {
		return nil, ErrOperatorNotFound
	}
	return &op, nil
}

// FallbackOperators tries each store in turn and returns the first match.
type FallbackOperators []OperatorStore

// FindOperatorByUsername returns the first operator found by any store.
func (f FallbackOperators) FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	for _, store := range f {
		op, err := store.FindOperatorByUsername(ctx, username)
		if err == nil {
			return op, nil
		}
		if !errors.Is(err, ErrOperatorNotFound) {
			return nil, err
		}
	}
	return nil, ErrOperatorNotFound
}
