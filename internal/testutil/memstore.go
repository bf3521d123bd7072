package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/domain/models"
)

// MemStore is an in-memory template source and request store with the
// same observable semantics as the Mongo stores, including the
// version-conditioned Replace. Service and handler tests run against it
// so the state machine can be exercised without a server.
type MemStore struct {
	mu        sync.Mutex
	templates map[string]models.Template
	requests  map[string]models.ValidationRequest
}

func NewMemStore() *MemStore {
	return &MemStore{
		templates: make(map[string]models.Template),
		requests:  make(map[string]models.ValidationRequest),
	}
}

// PutTemplate seeds a template.
func (m *MemStore) PutTemplate(t models.Template) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.EntityID] = t
}

// GetActive mirrors the Mongo template store: inactive and missing
// templates are both not found.
func (m *MemStore) GetActive(ctx context.Context, entityID string) (models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[entityID]
	if !ok || t.Status != models.TemplateStatusActive {
		return models.Template{}, apperr.NotFound("template %q not found or inactive", entityID)
	}
	return t, nil
}

func (m *MemStore) Insert(ctx context.Context, r models.ValidationRequest) (models.ValidationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.requests[r.EntityID]; exists {
		return r, apperr.Conflict("request %q already exists", r.EntityID)
	}
	r.Version = 1
	m.requests[r.EntityID] = cloneRequest(r)
	return r, nil
}

func (m *MemStore) GetByEntityID(ctx context.Context, entityID string) (models.ValidationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[entityID]
	if !ok {
		return models.ValidationRequest{}, apperr.NotFound("validation request %q not found", entityID)
	}
	return cloneRequest(r), nil
}

func (m *MemStore) Replace(ctx context.Context, r models.ValidationRequest, fromVersion int64) (models.ValidationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[r.EntityID]
	if !ok || stored.Version != fromVersion {
		return r, apperr.Conflict("validation request %q changed since read (version %d)", r.EntityID, fromVersion)
	}
	r.Version = fromVersion + 1
	m.requests[r.EntityID] = cloneRequest(r)
	return r, nil
}

func (m *MemStore) ListPendingForRole(ctx context.Context, role string) ([]models.ValidationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ValidationRequest
	for _, r := range m.requests {
		if r.Status != models.StatusPending {
			continue
		}
		for _, v := range r.Validators {
			if v.Role == role && v.Status == models.StatusPending {
				out = append(out, cloneRequest(r))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) ListByBook(ctx context.Context, bookID string) ([]models.ValidationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ValidationRequest
	for _, r := range m.requests {
		if r.BookID == bookID {
			out = append(out, cloneRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// cloneRequest deep-copies the slot slice so callers cannot mutate
// stored state behind the store's back.
func cloneRequest(r models.ValidationRequest) models.ValidationRequest {
	out := r
	out.Validators = make([]models.ValidatorAssignment, len(r.Validators))
	copy(out.Validators, r.Validators)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
