// Package rolestore persists executive role definitions that applications
// are submitted against.
package rolestore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides CRUD access to the executive_roles collection.
type Store struct {
	c *mongo.Collection
}

// New creates a role store backed by db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("executive_roles")}
}

// Input carries the caller-editable fields of a role definition.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create inserts a new role definition. Titles are unique case-insensitively.
func (s *Store) Create(ctx context.Context, in Input) (models.ExecutiveRole, error) {
	in.Title = htmlsanitize.Plain(normalize.Name(in.Title))
	in.Description = htmlsanitize.Sanitize(in.Description)
	if in.Title == "" {
		return models.ExecutiveRole{}, apperr.New(apperr.Validation, "title is required")
	}

	now := time.Now().UTC()
	r := models.ExecutiveRole{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		TitleCI:     text.Fold(in.Title),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ExecutiveRole{}, apperr.New(apperr.Conflict, "a role with this title already exists")
		}
		return models.ExecutiveRole{}, apperr.Wrap(apperr.Internal, "failed to create role", err)
	}
	return r, nil
}

// Update replaces the editable fields of a role definition.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in Input) (models.ExecutiveRole, error) {
	in.Title = htmlsanitize.Plain(normalize.Name(in.Title))
	in.Description = htmlsanitize.Sanitize(in.Description)
	if in.Title == "" {
		return models.ExecutiveRole{}, apperr.New(apperr.Validation, "title is required")
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       in.Title,
		"title_ci":    text.Fold(in.Title),
		"description": in.Description,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.ExecutiveRole{}, apperr.New(apperr.Conflict, "a role with this title already exists")
		}
		return models.ExecutiveRole{}, apperr.Wrap(apperr.Internal, "failed to update role", err)
	}
	if res.MatchedCount == 0 {
		return models.ExecutiveRole{}, apperr.New(apperr.NotFound, "role not found")
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one role definition.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ExecutiveRole, error) {
	var r models.ExecutiveRole
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	return r, err
}

// List returns all role definitions, alphabetical by folded title.
func (s *Store) List(ctx context.Context) ([]models.ExecutiveRole, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ExecutiveRole
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one role definition.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete role", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "role not found")
	}
	return nil
}
