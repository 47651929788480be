// internal/app/store/credentials/store.go
package credentialstore

import (
	"context"
	"errors"
	"time"

	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Minimum lengths enforced before any write. Secrets are hashed here and
// only the hash leaves this package.
const (
	MinSecretLength  = 8
	MinLoginIDLength = 3

	bcryptCost = 12
)

var (
	// ErrDuplicateLoginID is returned when the login identifier is already taken.
	ErrDuplicateLoginID = errors.New("this login id is already taken")
	errShortSecret      = errors.New("password must be at least 8 characters")
	errShortLoginID     = errors.New("login id must be at least 3 characters")
	errBadRole          = errors.New(`role must be "admin"|"associate"|"member"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("credentials")}
}

// HashSecret hashes a raw secret with bcrypt at cost 12.
func HashSecret(secret string) (string, error) {
	if len(secret) < MinSecretLength {
		return "", errShortSecret
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret reports whether the raw secret matches the stored hash.
func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Create inserts a new Identity Record. The caller supplies SecretHash
// (already hashed); the unique index on login_id_ci is the authoritative
// guard against duplicate identifiers.
// Callers performing paired writes may pre-assign the ID so the profile can
// reference it before either insert happens.
func (s *Store) Create(ctx context.Context, cred models.Credential) (models.Credential, error) {
	if cred.ID.IsZero() {
		cred.ID = primitive.NewObjectID()
	}
	cred.LoginID = normalize.LoginID(cred.LoginID)
	cred.LoginIDCI = text.Fold(cred.LoginID)
	cred.LinkedEmail = normalize.Email(cred.LinkedEmail)

	if len(cred.LoginID) < MinLoginIDLength {
		return models.Credential{}, errShortLoginID
	}
	if !models.ValidRole(cred.Role) {
		return models.Credential{}, errBadRole
	}

	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cred); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Credential{}, ErrDuplicateLoginID
		}
		return models.Credential{}, err
	}
	return cred, nil
}

// GetByID loads an Identity Record by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Credential, error) {
	var cred models.Credential
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// GetByLoginID looks up an Identity Record by case-insensitive login id.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.Credential, error) {
	var cred models.Credential
	err := s.c.FindOne(ctx, bson.M{"login_id_ci": text.Fold(normalize.LoginID(loginID))}).Decode(&cred)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// GetByEmail looks up an Identity Record by its linked email. This is the
// legacy linkage path used when a profile carries no credential_id.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := s.c.FindOne(ctx, bson.M{"linked_email": normalize.Email(email)}).Decode(&cred)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// LoginIDExists checks whether any Identity Record uses the given login id.
func (s *Store) LoginIDExists(ctx context.Context, loginID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"login_id_ci": text.Fold(normalize.LoginID(loginID))}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LoginIDExistsForOther checks whether the login id is used by a record
// other than the given one. Used by rename validation.
func (s *Store) LoginIDExistsForOther(ctx context.Context, loginID string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"login_id_ci": text.Fold(normalize.LoginID(loginID)),
		"_id":         bson.M{"$ne": excludeID},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateHash replaces the stored secret hash for the record with the given id.
func (s *Store) UpdateHash(ctx context.Context, id primitive.ObjectID, secretHash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"secret_hash": secretHash,
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

// UpdateHashByEmail replaces the secret hash on the record linked to email.
func (s *Store) UpdateHashByEmail(ctx context.Context, email, secretHash string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"linked_email": normalize.Email(email)},
		bson.M{"$set": bson.M{
			"secret_hash": secretHash,
			"updated_at":  time.Now().UTC(),
		}})
	return err
}

// Rename changes the login identifier on the record with the given id.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, newLoginID string) error {
	newLoginID = normalize.LoginID(newLoginID)
	if len(newLoginID) < MinLoginIDLength {
		return errShortLoginID
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"login_id":    newLoginID,
		"login_id_ci": text.Fold(newLoginID),
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateLoginID
	}
	return err
}

// RenameByEmail changes the login identifier on the record linked to email.
func (s *Store) RenameByEmail(ctx context.Context, email, newLoginID string) error {
	newLoginID = normalize.LoginID(newLoginID)
	if len(newLoginID) < MinLoginIDLength {
		return errShortLoginID
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"linked_email": normalize.Email(email)},
		bson.M{"$set": bson.M{
			"login_id":    newLoginID,
			"login_id_ci": text.Fold(newLoginID),
			"updated_at":  time.Now().UTC(),
		}})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateLoginID
	}
	return err
}

// UpdateEmail changes the linked email on the record with the given id.
func (s *Store) UpdateEmail(ctx context.Context, id primitive.ObjectID, newEmail string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"linked_email": normalize.Email(newEmail),
		"updated_at":   time.Now().UTC(),
	}})
	return err
}

// UpdateEmailByEmail relinks a record from its previous email to a new one.
// The caller must pass the profile's email from before the update, since the
// previous email is the lookup key on this path.
func (s *Store) UpdateEmailByEmail(ctx context.Context, oldEmail, newEmail string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"linked_email": normalize.Email(oldEmail)},
		bson.M{"$set": bson.M{
			"linked_email": normalize.Email(newEmail),
			"updated_at":   time.Now().UTC(),
		}})
	return err
}

// Delete removes an Identity Record by id. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByEmail removes the Identity Record linked to email.
func (s *Store) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"linked_email": normalize.Email(email)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
