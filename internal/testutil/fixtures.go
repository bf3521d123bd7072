package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bookworks/middleoffice/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Requirement builds a mandatory first-wave requirement for the role.
func Requirement(role string) models.ValidatorRequirement {
	return models.ValidatorRequirement{
		Role:      role,
		Title:     []models.InternationalizedString{{Language: "en", Value: role + " review"}},
		Order:     1,
		Mandatory: true,
	}
}

// CreateTemplate inserts an active template with the given id and
// validator requirements, and returns it.
func (f *Fixtures) CreateTemplate(ctx context.Context, entityID string, reqs ...models.ValidatorRequirement) models.Template {
	f.t.Helper()

	tpl := models.Template{
		EntityID:           entityID,
		Title:              []models.InternationalizedString{{Language: "en", Value: "Template " + entityID}},
		Status:             models.TemplateStatusActive,
		RequiredValidators: reqs,
	}

	_, err := f.db.Collection("templates").InsertOne(ctx, tpl)
	if err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}
	return tpl
}

// CreateInactiveTemplate inserts an archived template.
func (f *Fixtures) CreateInactiveTemplate(ctx context.Context, entityID string, reqs ...models.ValidatorRequirement) models.Template {
	f.t.Helper()

	tpl := models.Template{
		EntityID:           entityID,
		Status:             models.TemplateStatusArchived,
		RequiredValidators: reqs,
	}

	_, err := f.db.Collection("templates").InsertOne(ctx, tpl)
	if err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}
	return tpl
}

// NewRequest builds (without persisting) a pending request for a book
// with one pending mandatory slot per role.
func NewRequest(bookID string, roles ...string) models.ValidationRequest {
	req := models.ValidationRequest{
		EntityID:       models.NewEntityID(),
		BookID:         bookID,
		BookTitle:      "Book " + bookID,
		Template:       models.TemplateLink{EntityID: "tpl-fixture", Title: "Fixture Template"},
		Status:         models.StatusPending,
		ValidationType: models.ValidationAll,
		CreatedBy:      "fixtures",
		CreatedAt:      time.Now().UTC(),
	}
	for _, role := range roles {
		req.Validators = append(req.Validators, models.ValidatorAssignment{
			ID:        models.NewEntityID(),
			Role:      role,
			Status:    models.StatusPending,
			Order:     1,
			Mandatory: true,
		})
	}
	return req
}
