package requeststore

import (
	"context"
	"errors"

	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists validation requests.
//
// Writes follow the optimistic scheme: every document carries a version
// counter, Replace conditions the write on the version the caller read
// and bumps it. A concurrent writer therefore surfaces as
// apperr.ErrConflict instead of silently clobbering slots.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("validation_requests")}
}

// Insert stores a new request document. The caller provides EntityID,
// status, and the validator slots; Version is forced to 1.
func (s *Store) Insert(ctx context.Context, r models.ValidationRequest) (models.ValidationRequest, error) {
	r.Version = 1
	res, err := s.c.InsertOne(ctx, r)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return r, apperr.Conflict("request %q already exists", r.EntityID)
		}
		return r, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid
	}
	return r, nil
}

// GetByEntityID returns a single request by its business id.
func (s *Store) GetByEntityID(ctx context.Context, entityID string) (models.ValidationRequest, error) {
	var r models.ValidationRequest
	err := s.c.FindOne(ctx, bson.M{"entityId": entityID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, apperr.NotFound("validation request %q not found", entityID)
	}
	return r, err
}

// Replace writes back a request read at fromVersion, full-document
// semantics. The stored document must still be at fromVersion; the
// written document carries fromVersion+1. Returns apperr.ErrConflict
// when another writer got there first (or the request vanished).
func (s *Store) Replace(ctx context.Context, r models.ValidationRequest, fromVersion int64) (models.ValidationRequest, error) {
	r.Version = fromVersion + 1
	filter := bson.M{"entityId": r.EntityID, "version": fromVersion}
	res, err := s.c.ReplaceOne(ctx, filter, r)
	if err != nil {
		return r, err
	}
	if res.MatchedCount == 0 {
		return r, apperr.Conflict("validation request %q changed since read (version %d)", r.EntityID, fromVersion)
	}
	return r, nil
}

// ListPendingForRole returns pending requests that still have a pending
// slot for the given role: the "my validations to handle" inbox.
func (s *Store) ListPendingForRole(ctx context.Context, role string) ([]models.ValidationRequest, error) {
	filter := bson.M{
		"status": models.StatusPending,
		"validators": bson.M{"$elemMatch": bson.M{
			"role":   role,
			"status": models.StatusPending,
		}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ValidationRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByBook returns every request for a book, newest first.
func (s *Store) ListByBook(ctx context.Context, bookID string) ([]models.ValidationRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"bookId": bookID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ValidationRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
