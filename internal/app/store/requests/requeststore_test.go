package requeststore_test

import (
	"errors"
	"testing"
	"time"

	requeststore "github.com/bookworks/middleoffice/internal/app/store/requests"
	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/app/system/indexes"
	"github.com/bookworks/middleoffice/internal/domain/models"
	"github.com/bookworks/middleoffice/internal/testutil"
)

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewRequest("book-1", "legal", "editorial")

	created, err := store.Insert(ctx, req)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if created.Version != 1 {
		t.Errorf("Version: got %d, want 1", created.Version)
	}

	got, err := store.GetByEntityID(ctx, req.EntityID)
	if err != nil {
		t.Fatalf("GetByEntityID failed: %v", err)
	}
	if got.BookID != "book-1" {
		t.Errorf("BookID: got %q, want %q", got.BookID, "book-1")
	}
	if len(got.Validators) != 2 {
		t.Errorf("Validators: got %d, want 2", len(got.Validators))
	}
	if got.Status != models.StatusPending {
		t.Errorf("Status: got %q, want pending", got.Status)
	}
}

func TestStore_Insert_DuplicateEntityID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	req := testutil.NewRequest("book-dup", "legal")
	if _, err := store.Insert(ctx, req); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	_, err := store.Insert(ctx, req)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate insert: got %v, want kind %v", err, apperr.ErrConflict)
	}
}

func TestStore_GetByEntityID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByEntityID(ctx, "no-such-request")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("got error %v, want kind %v", err, apperr.ErrNotFound)
	}
}

func TestStore_Replace_BumpsVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, testutil.NewRequest("book-2", "legal"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	created.Validators[0].Status = models.StatusApproved
	created.Status = models.StatusApproved

	updated, err := store.Replace(ctx, created, created.Version)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version after replace: got %d, want 2", updated.Version)
	}

	got, err := store.GetByEntityID(ctx, created.EntityID)
	if err != nil {
		t.Fatalf("GetByEntityID failed: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("Status: got %q, want approved", got.Status)
	}
	if got.Version != 2 {
		t.Errorf("stored Version: got %d, want 2", got.Version)
	}
}

func TestStore_Replace_StaleVersionConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, testutil.NewRequest("book-3", "legal", "editorial"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Writer A wins.
	a := created
	a.Validators[0].Status = models.StatusApproved
	if _, err := store.Replace(ctx, a, created.Version); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}

	// Writer B still holds version 1; its replace must not clobber A.
	b := created
	b.Validators[1].Status = models.StatusApproved
	_, err = store.Replace(ctx, b, created.Version)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("stale replace: got %v, want kind %v", err, apperr.ErrConflict)
	}

	got, err := store.GetByEntityID(ctx, created.EntityID)
	if err != nil {
		t.Fatalf("GetByEntityID failed: %v", err)
	}
	if got.Validators[0].Status != models.StatusApproved {
		t.Error("winner's slot update was lost")
	}
	if got.Validators[1].Status != models.StatusPending {
		t.Error("loser's stale aggregate leaked into the store")
	}
}

func TestStore_ListPendingForRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	waiting := testutil.NewRequest("book-4", "legal", "editorial")
	if _, err := store.Insert(ctx, waiting); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Closed request: must never show up in an inbox.
	closed := testutil.NewRequest("book-5", "legal")
	closed.Status = models.StatusApproved
	closed.Validators[0].Status = models.StatusApproved
	if _, err := store.Insert(ctx, closed); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Pending request whose legal slot is already decided.
	decidedSlot := testutil.NewRequest("book-6", "legal", "editorial")
	decidedSlot.Validators[0].Status = models.StatusApproved
	if _, err := store.Insert(ctx, decidedSlot); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.ListPendingForRole(ctx, "legal")
	if err != nil {
		t.Fatalf("ListPendingForRole failed: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != waiting.EntityID {
		t.Errorf("legal inbox: got %d entries, want just %q", len(got), waiting.EntityID)
	}

	got, err = store.ListPendingForRole(ctx, "editorial")
	if err != nil {
		t.Fatalf("ListPendingForRole failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("editorial inbox: got %d entries, want 2", len(got))
	}
}

func TestStore_ListByBook_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := testutil.NewRequest("book-7", "legal")
	second := testutil.NewRequest("book-7", "legal")
	second.CreatedAt = first.CreatedAt.Add(time.Millisecond)
	other := testutil.NewRequest("book-8", "legal")

	if _, err := store.Insert(ctx, first); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, second); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, other); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.ListByBook(ctx, "book-7")
	if err != nil {
		t.Fatalf("ListByBook failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d requests, want 2", len(got))
	}
	if got[0].EntityID != second.EntityID || got[1].EntityID != first.EntityID {
		t.Error("expected newest request first")
	}
}
