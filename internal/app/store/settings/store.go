// Package settingsstore persists the singleton site settings document.
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store provides access to the settings collection, which holds at most one
// document.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

// New creates a settings store backed by db.
func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{c: db.Collection("settings"), log: log}
}

// Get returns the current settings. The read runs under a fixed short
// budget; absence or timeout yields DefaultSettings so page loads never
// block on a slow settings fetch.
func (s *Store) Get(ctx context.Context) models.SiteSettings {
	fetchCtx, cancel := context.WithTimeout(ctx, timeouts.SettingsFetch)
	defer cancel()

	var out models.SiteSettings
	err := s.c.FindOne(fetchCtx, bson.M{}).Decode(&out)
	switch {
	case err == nil:
		return out
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.DefaultSettings()
	default:
		s.log.Warn("settings fetch failed; using defaults", zap.Error(err))
		return models.DefaultSettings()
	}
}

// Save upserts the singleton. The filter matches any existing document, so
// repeated saves never multiply it.
func (s *Store) Save(ctx context.Context, in models.SiteSettings, updatedBy primitive.ObjectID) (models.SiteSettings, error) {
	for i := range in.ExecutiveApplicationQuestions {
		in.ExecutiveApplicationQuestions[i].Prompt = htmlsanitize.Plain(in.ExecutiveApplicationQuestions[i].Prompt)
	}

	now := time.Now().UTC()
	set := bson.M{
		"executive_applications_open":     in.ExecutiveApplicationsOpen,
		"executive_application_questions": in.ExecutiveApplicationQuestions,
		"updated_at":                      now,
		"updated_by_id":                   updatedBy,
	}

	var out models.SiteSettings
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return models.SiteSettings{}, apperr.Wrap(apperr.Internal, "failed to save settings", err)
	}
	return out, nil
}
