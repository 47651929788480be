// internal/app/store/members/store.go
//
// Organization profiles (associate members) own a login identity. Every
// create, credential update, and delete here is a paired write against the
// credentials collection, run through txn.Runner so either both documents
// change or the first write is undone.
package memberstore

import (
	"context"
	"time"

	"github.com/memberhub/memberhub/internal/app/store/credentials"
	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/app/system/txn"
	"github.com/memberhub/memberhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c     *mongo.Collection
	creds *credentialstore.Store
	txn   *txn.Runner
	log   *zap.Logger
}

func New(db *mongo.Database, creds *credentialstore.Store, runner *txn.Runner, log *zap.Logger) *Store {
	return &Store{
		c:     db.Collection("associate_members"),
		creds: creds,
		txn:   runner,
		log:   log,
	}
}

// CreateInput carries the fields of a new organization profile. Secret is the
// raw password; it is hashed exactly once here and only the hash is stored.
type CreateInput struct {
	OrgName  string `json:"org_name"`
	LoginID  string `json:"login_id"`
	Secret   string `json:"secret"`
	OrgEmail string `json:"org_email"`
}

// CreateWithCredential inserts the profile and its paired Identity Record.
// The pre-checks produce friendly Conflict errors; the unique indexes on
// org_name_ci and login_id_ci remain the authoritative guard against
// concurrent duplicates.
func (s *Store) CreateWithCredential(ctx context.Context, in CreateInput) (models.AssociateMember, error) {
	in.OrgName = normalize.Name(in.OrgName)
	in.LoginID = normalize.LoginID(in.LoginID)
	in.OrgEmail = normalize.Email(in.OrgEmail)

	if in.OrgName == "" {
		return models.AssociateMember{}, apperr.New(apperr.Validation, "organization name is required")
	}
	if in.OrgEmail == "" {
		return models.AssociateMember{}, apperr.New(apperr.Validation, "organization email is required")
	}
	if len(in.LoginID) < credentialstore.MinLoginIDLength {
		return models.AssociateMember{}, apperr.New(apperr.Validation, "login id must be at least 3 characters")
	}

	hash, err := credentialstore.HashSecret(in.Secret)
	if err != nil {
		return models.AssociateMember{}, apperr.Wrap(apperr.Validation, "password must be at least 8 characters", err)
	}

	// Advisory pre-checks for friendlier messages.
	if exists, err := s.OrgNameExists(ctx, in.OrgName); err != nil {
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not check organization name", err)
	} else if exists {
		return models.AssociateMember{}, apperr.New(apperr.Conflict, "an organization with this name already exists")
	}
	if exists, err := s.creds.LoginIDExists(ctx, in.LoginID); err != nil {
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not check login id", err)
	} else if exists {
		return models.AssociateMember{}, apperr.New(apperr.Conflict, "this login id is already taken")
	}

	now := time.Now().UTC()
	credID := primitive.NewObjectID()
	profile := models.AssociateMember{
		ID:             primitive.NewObjectID(),
		OrgName:        in.OrgName,
		OrgNameCI:      text.Fold(in.OrgName),
		LoginID:        in.LoginID,
		LoginIDCI:      text.Fold(in.LoginID),
		SecretHash:     hash,
		OrgEmail:       in.OrgEmail,
		ApprovalStatus: models.ApprovalPending,
		ApprovedAt:     nil,
		Role:           models.RoleAssociate,
		CredentialID:   &credID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	insertProfile := func(ctx context.Context) error {
		_, err := s.c.InsertOne(ctx, profile)
		return err
	}
	undoProfile := func(ctx context.Context) error {
		_, err := s.c.DeleteOne(ctx, bson.M{"_id": profile.ID})
		return err
	}
	insertCredential := func(ctx context.Context) error {
		_, err := s.creds.Create(ctx, models.Credential{
			ID:          credID,
			LoginID:     in.LoginID,
			SecretHash:  hash,
			Role:        models.RoleAssociate,
			LinkedEmail: in.OrgEmail,
		})
		return err
	}

	if err := s.txn.Paired(ctx, insertProfile, insertCredential, undoProfile); err != nil {
		switch {
		case err == credentialstore.ErrDuplicateLoginID:
			return models.AssociateMember{}, apperr.New(apperr.Conflict, "this login id is already taken")
		case wafflemongo.IsDup(err):
			return models.AssociateMember{}, apperr.New(apperr.Conflict, "an organization with this name or login id already exists")
		}
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not create organization", err)
	}
	return profile, nil
}

// CredentialUpdate holds credential-bearing profile changes. Empty fields are
// left unchanged. Secret is raw and hashed here.
type CredentialUpdate struct {
	OrgName  string `json:"org_name"`
	OrgEmail string `json:"org_email"`
	LoginID  string `json:"login_id"`
	Secret   string `json:"secret"`
}

// UpdateCredential applies profile changes and propagates login id, secret,
// and email changes to the paired Identity Record. The profile is read first:
// the previous email is the legacy lookup key for the credential, and the
// previous field values feed the compensating undo.
func (s *Store) UpdateCredential(ctx context.Context, id primitive.ObjectID, upd CredentialUpdate) (models.AssociateMember, error) {
	prev, err := s.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AssociateMember{}, apperr.New(apperr.NotFound, "organization not found")
		}
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not load organization", err)
	}

	cred, credErr := s.locateCredential(ctx, prev)
	if credErr != nil && credErr != mongo.ErrNoDocuments {
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not load identity record", credErr)
	}
	if cred == nil {
		// Repair-worthy: the profile has no paired Identity Record. Apply the
		// profile side only and surface the inconsistency in the logs.
		s.log.Warn("organization profile has no paired identity record",
			zap.String("member_id", id.Hex()),
			zap.String("org_email", prev.OrgEmail))
	}
	ref := s.credRefFor(prev, cred)

	profileSet := bson.M{"updated_at": time.Now().UTC()}
	credOps := []func(ctx context.Context) error{}

	if name := normalize.Name(upd.OrgName); name != "" && name != prev.OrgName {
		if exists, err := s.OrgNameExistsForOther(ctx, name, id); err != nil {
			return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not check organization name", err)
		} else if exists {
			return models.AssociateMember{}, apperr.New(apperr.Conflict, "an organization with this name already exists")
		}
		profileSet["org_name"] = name
		profileSet["org_name_ci"] = text.Fold(name)
	}

	if loginID := normalize.LoginID(upd.LoginID); loginID != "" && loginID != prev.LoginID {
		if len(loginID) < credentialstore.MinLoginIDLength {
			return models.AssociateMember{}, apperr.New(apperr.Validation, "login id must be at least 3 characters")
		}
		excludeID := primitive.NilObjectID
		if cred != nil {
			excludeID = cred.ID
		}
		if exists, err := s.creds.LoginIDExistsForOther(ctx, loginID, excludeID); err != nil {
			return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not check login id", err)
		} else if exists {
			return models.AssociateMember{}, apperr.New(apperr.Conflict, "this login id is already taken")
		}
		profileSet["login_id"] = loginID
		profileSet["login_id_ci"] = text.Fold(loginID)
		if cred != nil {
			credOps = append(credOps, func(ctx context.Context) error {
				return ref.rename(ctx, loginID)
			})
		}
	}

	if upd.Secret != "" {
		hash, err := credentialstore.HashSecret(upd.Secret)
		if err != nil {
			return models.AssociateMember{}, apperr.Wrap(apperr.Validation, "password must be at least 8 characters", err)
		}
		profileSet["secret_hash"] = hash
		if cred != nil {
			credOps = append(credOps, func(ctx context.Context) error {
				return ref.updateHash(ctx, hash)
			})
		}
	}

	if email := normalize.Email(upd.OrgEmail); email != "" && email != prev.OrgEmail {
		profileSet["org_email"] = email
		if cred != nil {
			// Appended last: on the legacy path the remaining ops are keyed
			// on the old linked email, so the relink must not run before them.
			credOps = append(credOps, func(ctx context.Context) error {
				return ref.relinkEmail(ctx, email)
			})
		}
	}

	updateProfile := func(ctx context.Context) error {
		_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": profileSet})
		return err
	}
	undoProfile := func(ctx context.Context) error {
		restore := bson.M{
			"org_name":    prev.OrgName,
			"org_name_ci": prev.OrgNameCI,
			"login_id":    prev.LoginID,
			"login_id_ci": prev.LoginIDCI,
			"secret_hash": prev.SecretHash,
			"org_email":   prev.OrgEmail,
			"updated_at":  prev.UpdatedAt,
		}
		_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": restore})
		return err
	}
	updateCredential := func(ctx context.Context) error {
		for _, op := range credOps {
			if err := op(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	if err := s.txn.Paired(ctx, updateProfile, updateCredential, undoProfile); err != nil {
		switch {
		case err == credentialstore.ErrDuplicateLoginID:
			return models.AssociateMember{}, apperr.New(apperr.Conflict, "this login id is already taken")
		case wafflemongo.IsDup(err):
			return models.AssociateMember{}, apperr.New(apperr.Conflict, "an organization with this name or login id already exists")
		}
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not update organization", err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return models.AssociateMember{}, apperr.Wrap(apperr.Internal, "could not reload organization", err)
	}
	return *updated, nil
}

// DeleteWithCredential removes the profile and its paired Identity Record.
// The profile is read first to discover the linkage; the profile document is
// deleted first so a failed credential delete can be undone by reinsert.
func (s *Store) DeleteWithCredential(ctx context.Context, id primitive.ObjectID) error {
	prev, err := s.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.New(apperr.NotFound, "organization not found")
		}
		return apperr.Wrap(apperr.Internal, "could not load organization", err)
	}

	cred, credErr := s.locateCredential(ctx, prev)
	if credErr != nil && credErr != mongo.ErrNoDocuments {
		return apperr.Wrap(apperr.Internal, "could not load identity record", credErr)
	}
	ref := s.credRefFor(prev, cred)

	deleteProfile := func(ctx context.Context) error {
		_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		return err
	}
	undoProfile := func(ctx context.Context) error {
		_, err := s.c.InsertOne(ctx, prev)
		return err
	}
	deleteCredential := func(ctx context.Context) error {
		if cred == nil {
			// Already orphan-free; nothing to pair.
			return nil
		}
		return ref.delete(ctx)
	}

	if err := s.txn.Paired(ctx, deleteProfile, deleteCredential, undoProfile); err != nil {
		return apperr.Wrap(apperr.Internal, "could not delete organization", err)
	}
	return nil
}

// locateCredential finds the profile's Identity Record: by stable
// credential_id when present, by linked email otherwise.
func (s *Store) locateCredential(ctx context.Context, m *models.AssociateMember) (*models.Credential, error) {
	if m.CredentialID != nil {
		cred, err := s.creds.GetByID(ctx, *m.CredentialID)
		if err == nil {
			return cred, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}
	return s.creds.GetByEmail(ctx, m.OrgEmail)
}

// credRef addresses a located Identity Record for writes. Profiles created
// before the credential_id backlink existed have no stable reference to
// their record; those write through the linked email the profile carried
// before the update, which is why an email relink must be the last
// credential op in a paired write.
type credRef struct {
	creds  *credentialstore.Store
	id     primitive.ObjectID
	email  string
	legacy bool
}

func (s *Store) credRefFor(prev *models.AssociateMember, cred *models.Credential) credRef {
	ref := credRef{creds: s.creds, email: prev.OrgEmail}
	if cred != nil {
		ref.id = cred.ID
		ref.legacy = prev.CredentialID == nil || *prev.CredentialID != cred.ID
	}
	return ref
}

func (r credRef) rename(ctx context.Context, loginID string) error {
	if r.legacy {
		return r.creds.RenameByEmail(ctx, r.email, loginID)
	}
	return r.creds.Rename(ctx, r.id, loginID)
}

func (r credRef) updateHash(ctx context.Context, hash string) error {
	if r.legacy {
		return r.creds.UpdateHashByEmail(ctx, r.email, hash)
	}
	return r.creds.UpdateHash(ctx, r.id, hash)
}

func (r credRef) relinkEmail(ctx context.Context, newEmail string) error {
	if r.legacy {
		return r.creds.UpdateEmailByEmail(ctx, r.email, newEmail)
	}
	return r.creds.UpdateEmail(ctx, r.id, newEmail)
}

func (r credRef) delete(ctx context.Context) error {
	var err error
	if r.legacy {
		_, err = r.creds.DeleteByEmail(ctx, r.email)
	} else {
		_, err = r.creds.Delete(ctx, r.id)
	}
	return err
}

// Approve marks a pending organization approved and stamps approved_at.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) (*models.AssociateMember, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"approval_status": models.ApprovalApproved,
		"approved_at":     now,
		"updated_at":      now,
	}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not approve organization", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.New(apperr.NotFound, "organization not found")
	}
	return s.GetByID(ctx, id)
}

// Reject marks a pending organization rejected and clears approved_at.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID) (*models.AssociateMember, error) {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"approval_status": models.ApprovalRejected, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"approved_at": ""},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not reject organization", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.New(apperr.NotFound, "organization not found")
	}
	return s.GetByID(ctx, id)
}

// GetByID loads a profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AssociateMember, error) {
	var m models.AssociateMember
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByLoginID loads a profile by case-insensitive login id. Backs the
// /associate-members/me path.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.AssociateMember, error) {
	var m models.AssociateMember
	err := s.c.FindOne(ctx, bson.M{"login_id_ci": text.Fold(normalize.LoginID(loginID))}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns profiles, optionally filtered by approval status, newest first.
func (s *Store) List(ctx context.Context, approvalStatus string) ([]models.AssociateMember, error) {
	filter := bson.M{}
	if approvalStatus != "" {
		filter["approval_status"] = approvalStatus
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AssociateMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrgNameExists checks whether an organization with the given name exists.
func (s *Store) OrgNameExists(ctx context.Context, name string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"org_name_ci": text.Fold(normalize.Name(name))}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// OrgNameExistsForOther checks whether the name is used by another profile.
func (s *Store) OrgNameExistsForOther(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"org_name_ci": text.Fold(normalize.Name(name)),
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
