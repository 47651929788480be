package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationQuestion is one prompt shown on the executive application form.
type ApplicationQuestion struct {
	Prompt   string `bson:"prompt" json:"prompt"`
	Required bool   `bson:"required" json:"required"`
}

// SiteSettings is the singleton settings document: at most one exists, and it
// is always upserted, never multiplied. Readers fall back to
// DefaultSettings() when the document is absent or the fetch times out.
type SiteSettings struct {
	ID                            primitive.ObjectID    `bson:"_id,omitempty" json:"id,omitempty"`
	ExecutiveApplicationsOpen     bool                  `bson:"executive_applications_open" json:"executive_applications_open"`
	ExecutiveApplicationQuestions []ApplicationQuestion `bson:"executive_application_questions,omitempty" json:"executive_application_questions,omitempty"`

	UpdatedAt   *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}

// DefaultSettings is the optimistic default used when no settings document
// exists yet or the settings fetch times out.
func DefaultSettings() SiteSettings {
	return SiteSettings{ExecutiveApplicationsOpen: false}
}
