package templatestore_test

import (
	"errors"
	"testing"

	templatestore "github.com/bookworks/middleoffice/internal/app/store/templates"
	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/testutil"
)

func TestStore_GetActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTemplate(ctx, "tpl-live", testutil.Requirement("legal"))

	got, err := store.GetActive(ctx, "tpl-live")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if got.EntityID != "tpl-live" {
		t.Errorf("EntityID: got %q, want %q", got.EntityID, "tpl-live")
	}
	if len(got.RequiredValidators) != 1 || got.RequiredValidators[0].Role != "legal" {
		t.Errorf("RequiredValidators: got %+v", got.RequiredValidators)
	}
}

func TestStore_GetActive_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetActive(ctx, "tpl-ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("got error %v, want kind %v", err, apperr.ErrNotFound)
	}
}

func TestStore_GetActive_Inactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateInactiveTemplate(ctx, "tpl-archived", testutil.Requirement("legal"))

	// Archived templates must be indistinguishable from missing ones.
	_, err := store.GetActive(ctx, "tpl-archived")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("got error %v, want kind %v", err, apperr.ErrNotFound)
	}

	// Get without the status filter still sees it.
	got, err := store.Get(ctx, "tpl-archived")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.EntityID != "tpl-archived" {
		t.Errorf("EntityID: got %q, want %q", got.EntityID, "tpl-archived")
	}
}
