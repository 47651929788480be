// Package subscriberstore persists newsletter signups.
package subscriberstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the subscribers collection.
type Store struct {
	c *mongo.Collection
}

// New creates a subscriber store backed by db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("subscribers")}
}

// Create inserts a new subscriber. A duplicate email is a Conflict; the
// existing record is never overwritten.
func (s *Store) Create(ctx context.Context, email, name string) (models.Subscriber, error) {
	email = normalize.Email(email)
	name = htmlsanitize.Plain(normalize.Name(name))
	if email == "" {
		return models.Subscriber{}, apperr.New(apperr.Validation, "email is required")
	}

	sub := models.Subscriber{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subscriber{}, apperr.New(apperr.Conflict, "this email is already subscribed")
		}
		return models.Subscriber{}, apperr.Wrap(apperr.Internal, "failed to create subscriber", err)
	}
	return sub, nil
}

// List returns all subscribers, newest first.
func (s *Store) List(ctx context.Context) ([]models.Subscriber, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Subscriber
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one subscriber.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete subscriber", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "subscriber not found")
	}
	return nil
}
