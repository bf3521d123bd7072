package auditlog_test

import (
	"context"
	"testing"

	"github.com/bookworks/middleoffice/internal/app/store/audit"
	"github.com/bookworks/middleoffice/internal/app/system/auditlog"
	"github.com/bookworks/middleoffice/internal/testutil"
	"go.uber.org/zap"
)

func TestLogger_NilSafe(t *testing.T) {
	var logger *auditlog.Logger

	// None of these should panic on a nil logger.
	logger.Log(context.Background(), audit.Event{})
	logger.RequestCreated(context.Background(), "req-1", "book-1", "tpl-1", "alice")
	logger.DecisionRecorded(context.Background(), "req-1", "slot-1", "qm-1", "approved", "approved")
	logger.DecisionRefused(context.Background(), "req-1", "slot-1", "qm-1", "already decided")
}

func TestLogger_LogsToDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Validation: "db"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.RequestCreated(ctx, "req-1", "book-1", "tpl-1", "alice")
	logger.DecisionRecorded(ctx, "req-1", "slot-1", "qm-1", "approved", "pending")

	events, err := store.Query(ctx, audit.QueryFilter{RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestLogger_OffSkipsDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Validation: "off"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.RequestCreated(ctx, "req-1", "book-1", "tpl-1", "alice")

	events, err := store.Query(ctx, audit.QueryFilter{RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events with logging off, got %d", len(events))
	}
}

func TestLogger_LogOnlySkipsDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Validation: "log"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.DecisionRefused(ctx, "req-1", "slot-1", "qm-1", "already decided")

	events, err := store.Query(ctx, audit.QueryFilter{RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no stored events in log-only mode, got %d", len(events))
	}
}
