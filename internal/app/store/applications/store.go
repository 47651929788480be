// Package applicationstore persists submitted executive applications.
package applicationstore

import (
	"context"
	"time"

	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the executive_applications collection.
type Store struct {
	c *mongo.Collection
}

// New creates an application store backed by db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("executive_applications")}
}

// Create inserts a submitted application. Answers are stored as given,
// sanitized; matching them against the configured questions is the
// submitting handler's job.
func (s *Store) Create(ctx context.Context, app models.ExecutiveApplication) (models.ExecutiveApplication, error) {
	app.Name = htmlsanitize.Plain(normalize.Name(app.Name))
	app.Email = normalize.Email(app.Email)
	if app.Name == "" || app.Email == "" {
		return models.ExecutiveApplication{}, apperr.New(apperr.Validation, "name and email are required")
	}
	if app.RoleID.IsZero() {
		return models.ExecutiveApplication{}, apperr.New(apperr.Validation, "role is required")
	}
	for i := range app.Answers {
		app.Answers[i].Question = htmlsanitize.Plain(app.Answers[i].Question)
		app.Answers[i].Answer = htmlsanitize.Plain(app.Answers[i].Answer)
	}

	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, app); err != nil {
		return models.ExecutiveApplication{}, apperr.Wrap(apperr.Internal, "failed to create application", err)
	}
	return app, nil
}

// GetByID fetches one application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ExecutiveApplication, error) {
	var app models.ExecutiveApplication
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	return app, err
}

// List returns all applications, newest first.
func (s *Store) List(ctx context.Context) ([]models.ExecutiveApplication, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ExecutiveApplication
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one application.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete application", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "application not found")
	}
	return nil
}
