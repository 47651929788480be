// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

Every uniqueness invariant the stores rely on is enforced here with a unique
index; the stores' read-then-write pre-checks only exist to produce friendly
error messages. The index is the authoritative guard.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureCredentials(ctx, db); err != nil {
		problems = append(problems, "credentials: "+err.Error())
	}
	if err := ensureAssociateMembers(ctx, db); err != nil {
		problems = append(problems, "associate_members: "+err.Error())
	}
	if err := ensurePartners(ctx, db); err != nil {
		problems = append(problems, "partners: "+err.Error())
	}
	if err := ensureExecutives(ctx, db); err != nil {
		problems = append(problems, "executives: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureSubscribers(ctx, db); err != nil {
		problems = append(problems, "subscribers: "+err.Error())
	}
	if err := ensureExecutiveRoles(ctx, db); err != nil {
		problems = append(problems, "executive_roles: "+err.Error())
	}
	if err := ensureExecutiveApplications(ctx, db); err != nil {
		problems = append(problems, "executive_applications: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}
	if err := ensureLoginRecords(ctx, db); err != nil {
		problems = append(problems, "login_records: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	// Load existing indexes once per collection.
	existing := map[string]existingIndex{} // sig -> index
	if cur, err := coll.Indexes().List(ctx); err == nil {
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
		cur.Close(ctx)
	}

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Same keys, same uniqueness → reuse whatever name it has.
				continue
			}
			// Options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureCredentials(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("credentials")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Login identifiers must be unique across the whole store.
		{
			Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_credentials_loginidci"),
		},
		// Legacy linkage path: the paired profile is found by email.
		{
			Keys:    bson.D{{Key: "linked_email", Value: 1}},
			Options: options.Index().SetName("idx_credentials_linkedemail"),
		},
	})
}

func ensureAssociateMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("associate_members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Organization names are globally unique (case/diacritics folded).
		{
			Keys:    bson.D{{Key: "org_name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_assoc_orgnameci"),
		},
		// Login ids unique within the profile collection too; cross-collection
		// uniqueness against credentials is checked at write time.
		{
			Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_assoc_loginidci"),
		},
		// Admin list screens: filter by approval status, newest first.
		{
			Keys:    bson.D{{Key: "approval_status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_assoc_status_created"),
		},
		{
			Keys:    bson.D{{Key: "org_email", Value: 1}},
			Options: options.Index().SetName("idx_assoc_orgemail"),
		},
	})
}

func ensurePartners(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("partners")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Public listing sorts by rank.
		{
			Keys:    bson.D{{Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_partners_order"),
		},
	})
}

func ensureExecutives(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("executives")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_executives_order"),
		},
	})
}

// No index guards registration-email uniqueness: registrations are an
// embedded array, and the event store's filtered $addToSet enforces one
// entry per email.
func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Public listing: upcoming first.
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("idx_events_date"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_events_creator"),
		},
	})
}

func ensureSubscribers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("subscribers")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Duplicate subscribe attempts must fail, never upsert.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_subscribers_email"),
		},
	})
}

func ensureExecutiveRoles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("executive_roles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_roles_titleci"),
		},
	})
}

func ensureExecutiveApplications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("executive_applications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_applications_created"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_timestamp"),
		},
	})
}

// Helpful for dashboards that show recent activity / login lists.
func ensureLoginRecords(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("login_records")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-user recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_user_created"),
		},
		// Site-wide recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_created"),
		},
	})
}
