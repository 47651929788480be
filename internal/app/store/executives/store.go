// Package executivestore persists executive team profiles, ordered by
// display rank. Executives with the admin role may carry a paired login
// credential so they can sign in to manage the site.
package executivestore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/app/system/ordering"
	"github.com/memberhub/memberhub/internal/app/system/txn"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store provides CRUD access to the executives collection.
type Store struct {
	c     *mongo.Collection
	creds *credentialstore.Store
	txn   *txn.Runner
	log   *zap.Logger
}

// New creates an executive store backed by db.
func New(db *mongo.Database, creds *credentialstore.Store, runner *txn.Runner, log *zap.Logger) *Store {
	return &Store{c: db.Collection("executives"), creds: creds, txn: runner, log: log}
}

// Input carries the caller-editable fields of an executive. LoginID and
// Secret are only honored for the admin role; non-admin executives are
// display-only profiles.
type Input struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	LoginID string `json:"login_id,omitempty"`
	Secret  string `json:"secret,omitempty"`
}

// Create appends a new executive at the end of the display order. Admin
// executives given a login id and secret also get a paired credential,
// written with the same paired protocol the member store uses.
func (s *Store) Create(ctx context.Context, in Input) (models.Executive, error) {
	in.Name = htmlsanitize.Plain(normalize.Name(in.Name))
	in.Role = normalize.Role(in.Role)
	in.LoginID = normalize.LoginID(in.LoginID)

	if in.Name == "" {
		return models.Executive{}, apperr.New(apperr.Validation, "name is required")
	}
	if in.Role != models.RoleAdmin && in.Role != models.RoleMember {
		return models.Executive{}, apperr.New(apperr.Validation, "role must be admin or member")
	}

	count, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to count executives", err)
	}

	now := time.Now().UTC()
	exec := models.Executive{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		NameCI:    text.Fold(in.Name),
		Role:      in.Role,
		Order:     int(count),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Role != models.RoleAdmin || in.LoginID == "" {
		if _, err := s.c.InsertOne(ctx, exec); err != nil {
			return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to create executive", err)
		}
		return exec, nil
	}

	// Admin with a login: pair a credential.
	hash, err := credentialstore.HashSecret(in.Secret)
	if err != nil {
		return models.Executive{}, apperr.Wrap(apperr.Validation, "invalid secret", err)
	}
	exists, err := s.creds.LoginIDExists(ctx, in.LoginID)
	if err != nil {
		return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to check login id", err)
	}
	if exists {
		return models.Executive{}, apperr.New(apperr.Conflict, "this login id is already taken")
	}

	credID := primitive.NewObjectID()
	exec.SecretHash = hash
	exec.CredentialID = &credID

	insertProfile := func(ctx context.Context) error {
		_, err := s.c.InsertOne(ctx, exec)
		return err
	}
	insertCredential := func(ctx context.Context) error {
		_, err := s.creds.Create(ctx, models.Credential{
			ID:         credID,
			LoginID:    in.LoginID,
			SecretHash: hash,
			Role:       models.RoleAdmin,
		})
		return err
	}
	undoProfile := func(ctx context.Context) error {
		_, err := s.c.DeleteOne(ctx, bson.M{"_id": exec.ID})
		return err
	}

	if err := s.txn.Paired(ctx, insertProfile, insertCredential, undoProfile); err != nil {
		if err == credentialstore.ErrDuplicateLoginID {
			return models.Executive{}, apperr.New(apperr.Conflict, "this login id is already taken")
		}
		return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to create executive", err)
	}
	return exec, nil
}

// Update replaces the editable profile fields. A new secret propagates to
// the paired credential when one exists.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in Input) (models.Executive, error) {
	prev, err := s.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Executive{}, apperr.New(apperr.NotFound, "executive not found")
		}
		return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to load executive", err)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if name := htmlsanitize.Plain(normalize.Name(in.Name)); name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if role := normalize.Role(in.Role); role != "" {
		if role != models.RoleAdmin && role != models.RoleMember {
			return models.Executive{}, apperr.New(apperr.Validation, "role must be admin or member")
		}
		set["role"] = role
	}

	if in.Secret != "" {
		hash, err := credentialstore.HashSecret(in.Secret)
		if err != nil {
			return models.Executive{}, apperr.Wrap(apperr.Validation, "invalid secret", err)
		}
		set["secret_hash"] = hash
		if prev.CredentialID != nil {
			if err := s.creds.UpdateHash(ctx, *prev.CredentialID, hash); err != nil {
				return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to update credential", err)
			}
		} else {
			s.log.Warn("executive has no paired credential; secret stored on profile only",
				zap.String("executive_id", id.Hex()))
		}
	}

	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return models.Executive{}, apperr.Wrap(apperr.Internal, "failed to update executive", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one executive.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Executive, error) {
	var e models.Executive
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	return e, err
}

// List returns all executives in display order.
func (s *Store) List(ctx context.Context) ([]models.Executive, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Executive
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an executive and, when present, its paired credential.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	prev, err := s.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.New(apperr.NotFound, "executive not found")
		}
		return apperr.Wrap(apperr.Internal, "failed to load executive", err)
	}

	deleteProfile := func(ctx context.Context) error {
		_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		return err
	}
	deleteCredential := func(ctx context.Context) error {
		if prev.CredentialID == nil {
			return nil
		}
		_, err := s.creds.Delete(ctx, *prev.CredentialID)
		return err
	}
	undoProfile := func(ctx context.Context) error {
		_, err := s.c.InsertOne(ctx, prev)
		return err
	}

	if err := s.txn.Paired(ctx, deleteProfile, deleteCredential, undoProfile); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete executive", err)
	}
	return nil
}

// Reorder assigns order=i to the executive at position i of orderedIDs.
func (s *Store) Reorder(ctx context.Context, orderedIDs []primitive.ObjectID) error {
	return ordering.Reorder(ctx, s.c, orderedIDs)
}
