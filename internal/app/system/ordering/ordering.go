// Package ordering maintains the dense zero-based rank shared by the
// display-ordered collections (partners, executives).
package ordering

import (
	"context"

	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reorder persists the caller-supplied ordering: the document at position i
// gets order=i. Applied as one batched multi-document write. Documents not
// mentioned keep their previous rank — callers supply the full current
// membership in practice. The batch is not all-or-nothing; a partial
// application surfaces as a single error without per-item status.
func Reorder(ctx context.Context, coll *mongo.Collection, orderedIDs []primitive.ObjectID) error {
	if len(orderedIDs) == 0 {
		return apperr.New(apperr.Validation, "order must be a non-empty array of ids")
	}

	writes := make([]mongo.WriteModel, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"order": i}}))
	}

	_, err := coll.BulkWrite(ctx, writes)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "reorder failed", err)
	}
	return nil
}

// ParseIDs converts hex ids from a request payload to ObjectIDs, rejecting
// malformed entries before any write happens.
func ParseIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	if len(hexIDs) == 0 {
		return nil, apperr.New(apperr.Validation, "order must be a non-empty array of ids")
	}
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, apperr.Newf(apperr.Validation, "invalid id %q", h)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
