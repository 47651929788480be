// Package txn runs paired two-collection writes. Profile documents and
// their Identity Records must be created, renamed, and deleted together;
// per-document atomicity alone cannot guarantee that.
//
// When the deployment supports multi-document transactions (replica set or
// sharded cluster) both writes run inside one. Standalone servers reject
// transactions, so the pair falls back to sequential writes with a
// compensating undo of the first write if the second fails. If the undo
// itself fails, the resulting orphan is logged as a repair-worthy
// inconsistency.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Op is one side of a paired write.
type Op func(ctx context.Context) error

// Runner executes paired writes against one Mongo deployment. A nil Client
// always uses the compensating fallback (used by tests and by callers that
// know the deployment is standalone).
type Runner struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// Paired runs first then second as a unit. undoFirst reverses first and is
// only invoked on the fallback path when second fails.
func (r *Runner) Paired(ctx context.Context, first, second, undoFirst Op) error {
	if r.Client != nil {
		err := r.transactional(ctx, first, second)
		if err == nil {
			return nil
		}
		if !IsNotSupported(err) {
			return err
		}
		// Standalone deployment: fall through to the compensating path.
	}
	return r.compensating(ctx, first, second, undoFirst)
}

func (r *Runner) transactional(ctx context.Context, first, second Op) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if err := first(sc); err != nil {
			return nil, err
		}
		if err := second(sc); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *Runner) compensating(ctx context.Context, first, second, undoFirst Op) error {
	if err := first(ctx); err != nil {
		return err
	}
	if err := second(ctx); err != nil {
		if undoFirst != nil {
			if undoErr := undoFirst(ctx); undoErr != nil && r.Log != nil {
				r.Log.Error("paired write left inconsistent state; manual repair needed",
					zap.NamedError("write_error", err),
					zap.NamedError("undo_error", undoErr))
			}
		}
		return err
	}
	return nil
}

// Transaction-unsupported server error codes.
const (
	codeIllegalOperation      = 20
	codeCommandNotSupported   = 51
	codeOperationNotSupported = 263
)

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (typically a standalone mongod).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeCommandNotSupported, codeOperationNotSupported:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		if strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation") {
			return true
		}
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
