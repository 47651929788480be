// Package eventstore persists events and their embedded registration sets.
package eventstore

import (
	"context"
	"time"

	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"github.com/memberhub/memberhub/internal/app/system/htmlsanitize"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyRegistered is returned when the email already appears in the
// event's registration set.
var ErrAlreadyRegistered = apperr.New(apperr.Conflict, "you are already registered for this event")

// Store provides CRUD access to the events collection.
type Store struct {
	c *mongo.Collection
}

// New creates an event store backed by db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Input carries the caller-editable fields of an event.
type Input struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Images      []string  `json:"images,omitempty"`
}

func (in *Input) clean() {
	in.Title = htmlsanitize.Plain(normalize.Name(in.Title))
	in.Description = htmlsanitize.Sanitize(in.Description)
	in.Time = normalize.Name(in.Time)
}

func (in Input) validate() error {
	if in.Title == "" {
		return apperr.New(apperr.Validation, "title is required")
	}
	if in.Date.IsZero() {
		return apperr.New(apperr.Validation, "date is required")
	}
	return nil
}

// Create inserts a new event owned by creatorID.
func (s *Store) Create(ctx context.Context, creatorID primitive.ObjectID, in Input) (models.Event, error) {
	in.clean()
	if err := in.validate(); err != nil {
		return models.Event{}, err
	}

	now := time.Now().UTC()
	e := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date.UTC(),
		Time:        in.Time,
		Images:      in.Images,
		UserID:      creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, apperr.Wrap(apperr.Internal, "failed to create event", err)
	}
	return e, nil
}

// Update replaces the editable fields of an event. Registrations are not
// touched by updates.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in Input) (models.Event, error) {
	in.clean()
	if err := in.validate(); err != nil {
		return models.Event{}, err
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       in.Title,
		"description": in.Description,
		"date":        in.Date.UTC(),
		"time":        in.Time,
		"images":      in.Images,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return models.Event{}, apperr.Wrap(apperr.Internal, "failed to update event", err)
	}
	if res.MatchedCount == 0 {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one event with its registrations.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	return e, err
}

// List returns all events, soonest first.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an event and its embedded registrations.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete event", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "event not found")
	}
	return nil
}

// Register adds reg to the event's registration set. The read-then-check is
// advisory only; the filtered $addToSet below is the authoritative guard, so
// two concurrent registrations with the same email cannot both land.
func (s *Store) Register(ctx context.Context, eventID primitive.ObjectID, reg models.Registration) (models.Event, error) {
	reg.UserEmail = normalize.Email(reg.UserEmail)
	reg.Name = htmlsanitize.Plain(normalize.Name(reg.Name))
	reg.Comments = htmlsanitize.Plain(reg.Comments)
	if reg.UserEmail == "" || reg.Name == "" {
		return models.Event{}, apperr.New(apperr.Validation, "email and name are required")
	}
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}

	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, apperr.New(apperr.NotFound, "event not found")
		}
		return models.Event{}, apperr.Wrap(apperr.Internal, "failed to load event", err)
	}

	// Advisory pre-check for a friendly error message.
	for _, existing := range event.Registrations {
		if existing.UserEmail == reg.UserEmail {
			return models.Event{}, ErrAlreadyRegistered
		}
	}

	// Authoritative: only push when no registration with this email exists.
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":                      eventID,
			"registrations.user_email": bson.M{"$ne": reg.UserEmail},
		},
		bson.M{"$addToSet": bson.M{"registrations": reg}},
	)
	if err != nil {
		return models.Event{}, apperr.Wrap(apperr.Internal, "failed to register", err)
	}
	if res.MatchedCount == 0 {
		// Lost the race to a concurrent registration with the same email.
		return models.Event{}, ErrAlreadyRegistered
	}

	return s.GetByID(ctx, eventID)
}

// Registrations returns the registration set for one event.
func (s *Store) Registrations(ctx context.Context, eventID primitive.ObjectID) ([]models.Registration, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "event not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load event", err)
	}
	return event.Registrations, nil
}
