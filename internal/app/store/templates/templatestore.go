package templatestore

import (
	"context"
	"errors"

	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads validation templates. Templates are authored in the back
// office; this service never writes to the collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("templates")}
}

// GetActive returns the active template with the given business id.
// Returns apperr.ErrNotFound when no template matches; an inactive
// template is indistinguishable from a missing one on purpose, so
// callers cannot open requests against archived definitions.
func (s *Store) GetActive(ctx context.Context, entityID string) (models.Template, error) {
	var t models.Template
	filter := bson.M{"entityId": entityID, "status": models.TemplateStatusActive}
	err := s.c.FindOne(ctx, filter).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, apperr.NotFound("template %q not found or inactive", entityID)
	}
	return t, err
}

// Get returns the template with the given business id regardless of
// status. Used by read-only surfaces that show historic definitions.
func (s *Store) Get(ctx context.Context, entityID string) (models.Template, error) {
	var t models.Template
	err := s.c.FindOne(ctx, bson.M{"entityId": entityID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, apperr.NotFound("template %q not found", entityID)
	}
	return t, err
}
