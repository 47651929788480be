package loginstore

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store records sign-in attempts in the login_records collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Create inserts a LoginRecord. If CreatedAt is zero, it's set to time.Now().UTC().
func (s *Store) Create(ctx context.Context, rec models.LoginRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// RecordSuccess inserts a successful sign-in built from the HTTP request and
// returns the minted session correlation id.
func (s *Store) RecordSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) (string, error) {
	sessionID := uuid.NewString()
	rec := models.LoginRecord{
		UserID:    &userID,
		LoginID:   loginID,
		SessionID: sessionID,
		IP:        clientIP(r),
		Success:   true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return sessionID, nil
}

// RecordFailure inserts a failed sign-in attempt. userID is nil when the
// login id resolved to no account.
func (s *Store) RecordFailure(ctx context.Context, r *http.Request, userID *primitive.ObjectID, loginID string) error {
	rec := models.LoginRecord{
		UserID:    userID,
		LoginID:   loginID,
		IP:        clientIP(r),
		Success:   false,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// ListByUser returns a user's sign-in history, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.LoginRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LoginRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountRecentFailures counts failed attempts for loginID since the cutoff.
// The login rate limiter consults this across restarts.
func (s *Store) CountRecentFailures(ctx context.Context, loginID string, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"login_id":   loginID,
		"success":    false,
		"created_at": bson.M{"$gte": since},
	})
}

func clientIP(r *http.Request) string {
	// Respect common proxy headers first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// XFF may contain a list; first is original client
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	// Fallback: parse RemoteAddr "ip:port"
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
