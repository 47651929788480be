// Package partnerstore persists partner organizations shown on the site,
// ordered by their display rank.
package partnerstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/app/system/ordering"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides CRUD access to the partners collection.
type Store struct {
	c *mongo.Collection
}

// New creates a partner store backed by db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("partners")}
}

// Input carries the caller-editable fields of a partner.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Color       string `json:"color"`
	LogoURL     string `json:"logo_url"`
}

func (in *Input) clean() {
	in.Name = htmlsanitize.Plain(normalize.Name(in.Name))
	in.Description = htmlsanitize.Sanitize(in.Description)
	in.Website = normalize.Name(in.Website)
	in.Color = normalize.Name(in.Color)
	in.LogoURL = normalize.Name(in.LogoURL)
}

// Create appends a new partner at the end of the display order.
func (s *Store) Create(ctx context.Context, in Input) (models.Partner, error) {
	in.clean()
	if in.Name == "" {
		return models.Partner{}, apperr.New(apperr.Validation, "name is required")
	}

	// New entries go to the back of the list.
	count, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Partner{}, apperr.Wrap(apperr.Internal, "failed to count partners", err)
	}

	now := time.Now().UTC()
	p := models.Partner{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		NameCI:      text.Fold(in.Name),
		Description: in.Description,
		Website:     in.Website,
		Color:       in.Color,
		LogoURL:     in.LogoURL,
		Order:       int(count),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Partner{}, apperr.Wrap(apperr.Internal, "failed to create partner", err)
	}
	return p, nil
}

// Update replaces the editable fields of a partner. The display rank is
// managed separately through Reorder.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in Input) (models.Partner, error) {
	in.clean()
	if in.Name == "" {
		return models.Partner{}, apperr.New(apperr.Validation, "name is required")
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        in.Name,
		"name_ci":     text.Fold(in.Name),
		"description": in.Description,
		"website":     in.Website,
		"color":       in.Color,
		"logo_url":    in.LogoURL,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return models.Partner{}, apperr.Wrap(apperr.Internal, "failed to update partner", err)
	}
	if res.MatchedCount == 0 {
		return models.Partner{}, apperr.New(apperr.NotFound, "partner not found")
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one partner.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Partner, error) {
	var p models.Partner
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	return p, err
}

// List returns all partners in display order.
func (s *Store) List(ctx context.Context) ([]models.Partner, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Partner
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a partner. Remaining ranks are left as-is; the next
// Reorder call compacts them.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete partner", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "partner not found")
	}
	return nil
}

// Reorder assigns order=i to the partner at position i of orderedIDs.
func (s *Store) Reorder(ctx context.Context, orderedIDs []primitive.ObjectID) error {
	return ordering.Reorder(ctx, s.c, orderedIDs)
}
