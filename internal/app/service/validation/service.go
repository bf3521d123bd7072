// Package validation orchestrates the multi-validator approval workflow:
// opening requests from template snapshots, admitting decisions through
// the request state machine, and deriving the global status.
package validation

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/app/system/auditlog"
	"github.com/bookworks/middleoffice/internal/app/system/decision"
	"github.com/bookworks/middleoffice/internal/app/system/sanitize"
	"github.com/bookworks/middleoffice/internal/domain/models"
	"go.uber.org/zap"
)

// conflictAttempts bounds the reread-and-retry loop around the
// optimistic replace in RecordDecision.
const conflictAttempts = 4

// TemplateSource supplies template definitions. Implemented by the Mongo
// template store; tests substitute fakes.
type TemplateSource interface {
	GetActive(ctx context.Context, entityID string) (models.Template, error)
}

// RequestStore persists validation requests. Replace must condition on
// fromVersion and fail with apperr.ErrConflict when the stored document
// has moved on.
type RequestStore interface {
	Insert(ctx context.Context, r models.ValidationRequest) (models.ValidationRequest, error)
	GetByEntityID(ctx context.Context, entityID string) (models.ValidationRequest, error)
	Replace(ctx context.Context, r models.ValidationRequest, fromVersion int64) (models.ValidationRequest, error)
	ListPendingForRole(ctx context.Context, role string) ([]models.ValidationRequest, error)
	ListByBook(ctx context.Context, bookID string) ([]models.ValidationRequest, error)
}

// RoleAuthorizer answers "may this principal act as this role". The
// identity collaborator hands us pre-validated principals; this hook is
// where a deployment plugs in actual role-membership checks.
type RoleAuthorizer interface {
	CanActAs(ctx context.Context, principal, role string) error
}

// AllowAll is the permissive RoleAuthorizer: it trusts the caller to
// have verified entitlement, matching the identity contract.
type AllowAll struct{}

func (AllowAll) CanActAs(ctx context.Context, principal, role string) error { return nil }

// Service coordinates template snapshots, the decision state machine,
// and request persistence.
type Service struct {
	templates TemplateSource
	requests  RequestStore
	authz     RoleAuthorizer
	audit     *auditlog.Logger
	log       *zap.Logger
}

// New builds a Service. audit may be nil (events are then dropped);
// authz nil means AllowAll.
func New(templates TemplateSource, requests RequestStore, authz RoleAuthorizer, audit *auditlog.Logger, log *zap.Logger) *Service {
	if authz == nil {
		authz = AllowAll{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		templates: templates,
		requests:  requests,
		authz:     authz,
		audit:     audit,
		log:       log,
	}
}

// CreateParams carries the inputs for opening a validation request.
type CreateParams struct {
	TemplateID string
	BookID     string
	BookTitle  string
	CreatedBy  string

	// ValidationType is optional; empty means "all".
	ValidationType models.ValidationType

	// Message is an optional note from the requester, shown to validators.
	Message string
}

// CreateRequest opens a validation request for a book: it loads the
// active template, snapshots its validator requirements into pending
// slots, derives the initial status, and persists the new aggregate.
//
// The template reference stored on the request is a value snapshot
// (id + title); later template edits never touch the request. A template
// with no mandatory requirements yields an immediately-approved request
// under the default policy.
func (s *Service) CreateRequest(ctx context.Context, p CreateParams) (models.ValidationRequest, error) {
	var zero models.ValidationRequest

	if p.TemplateID == "" {
		return zero, apperr.Validation("templateId is required")
	}
	if p.BookID == "" {
		return zero, apperr.Validation("bookId is required")
	}
	if p.CreatedBy == "" {
		return zero, apperr.Validation("createdBy is required")
	}

	vt := p.ValidationType
	if vt == "" {
		vt = models.ValidationAll
	}
	switch vt {
	case models.ValidationAll, models.ValidationMajority, models.ValidationAny:
	default:
		return zero, apperr.Validation("unknown validationType %q", vt)
	}

	tpl, err := s.templates.GetActive(ctx, p.TemplateID)
	if err != nil {
		return zero, err
	}

	now := time.Now().UTC()
	req := models.ValidationRequest{
		EntityID:  models.NewEntityID(),
		BookID:    p.BookID,
		BookTitle: p.BookTitle,
		Template: models.TemplateLink{
			EntityID: tpl.EntityID,
			Title:    tpl.DisplayTitle(),
		},
		ValidationType: vt,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      now,
		RequestMessage: sanitize.Text(p.Message),
	}

	for _, want := range tpl.RequiredValidators {
		req.Validators = append(req.Validators, models.ValidatorAssignment{
			ID:          models.NewEntityID(),
			Role:        want.Role,
			DisplayName: models.FirstValue(want.Title, want.Role),
			Status:      models.StatusPending,
			Order:       want.Order,
			Mandatory:   want.Mandatory,
		})
	}

	req.Status = decision.Compute(req.ValidationType, req.Validators)
	if req.Status.Terminal() {
		// Degenerate template with no mandatory slots: closed at birth.
		req.CompletedAt = &now
	}

	created, err := s.requests.Insert(ctx, req)
	if err != nil {
		return zero, err
	}

	s.audit.RequestCreated(ctx, created.EntityID, created.BookID, tpl.EntityID, p.CreatedBy)
	s.log.Info("validation request created",
		zap.String("request_id", created.EntityID),
		zap.String("book_id", created.BookID),
		zap.String("template_id", tpl.EntityID),
		zap.String("validation_type", string(created.ValidationType)),
		zap.Int("validators", len(created.Validators)),
		zap.String("status", string(created.Status)))

	return created, nil
}

// GetRequest returns a request by business id.
func (s *Service) GetRequest(ctx context.Context, requestID string) (models.ValidationRequest, error) {
	if requestID == "" {
		return models.ValidationRequest{}, apperr.Validation("requestId is required")
	}
	return s.requests.GetByEntityID(ctx, requestID)
}

// ListPendingForRole returns the open requests still waiting on the
// given role: the validator's inbox.
func (s *Service) ListPendingForRole(ctx context.Context, role string) ([]models.ValidationRequest, error) {
	if role == "" {
		return nil, apperr.Validation("role is required")
	}
	return s.requests.ListPendingForRole(ctx, role)
}

// ListRequestsForBook returns every request opened for a book, newest
// first.
func (s *Service) ListRequestsForBook(ctx context.Context, bookID string) ([]models.ValidationRequest, error) {
	if bookID == "" {
		return nil, apperr.Validation("bookId is required")
	}
	return s.requests.ListByBook(ctx, bookID)
}

// DecisionParams carries one validator's verdict on one slot.
type DecisionParams struct {
	RequestID   string
	ValidatorID string

	// Decision must be approved or rejected.
	Decision models.Status

	DecidedBy string
	Comment   string
}

// RecordDecision runs the request state machine for one decision:
//
//  1. the request must still be pending,
//  2. the slot must exist,
//  3. the slot must itself be pending,
//
// then stamps the slot, recomputes the global status, and writes the
// whole aggregate back conditioned on the version read. A concurrent
// writer triggers a reread and replay of the checks; after bounded
// retries the conflict is surfaced as apperr.ErrConflict.
func (s *Service) RecordDecision(ctx context.Context, p DecisionParams) (models.ValidationRequest, error) {
	var zero models.ValidationRequest

	if p.RequestID == "" {
		return zero, apperr.Validation("requestId is required")
	}
	if p.ValidatorID == "" {
		return zero, apperr.Validation("validatorId is required")
	}
	if p.DecidedBy == "" {
		return zero, apperr.Validation("decidedBy is required")
	}
	if p.Decision != models.StatusApproved && p.Decision != models.StatusRejected {
		return zero, apperr.Validation("decision must be %q or %q, got %q",
			models.StatusApproved, models.StatusRejected, p.Decision)
	}

	var (
		out      models.ValidationRequest
		finalErr error
	)

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(conflictAttempts),
		retry.DelayType(retry.BackOffDelay),
	)
	retryErr := r.Do(func() error {
		res, err := s.recordOnce(ctx, p)
		if err != nil && !errors.Is(err, apperr.ErrConflict) {
			// Precondition failures are final; don't burn retries on them.
			finalErr = err
			return nil
		}
		out = res
		return err
	})

	switch {
	case finalErr != nil:
		s.audit.DecisionRefused(ctx, p.RequestID, p.ValidatorID, p.DecidedBy, finalErr.Error())
		return zero, finalErr
	case retryErr != nil:
		s.log.Warn("decision lost optimistic write race repeatedly",
			zap.String("request_id", p.RequestID),
			zap.String("validator_id", p.ValidatorID),
			zap.Int("attempts", conflictAttempts))
		return zero, apperr.Conflict("request %q is being updated concurrently", p.RequestID)
	}

	s.audit.DecisionRecorded(ctx, out.EntityID, p.ValidatorID, p.DecidedBy,
		string(p.Decision), string(out.Status))
	s.log.Info("validator decision recorded",
		zap.String("request_id", out.EntityID),
		zap.String("validator_id", p.ValidatorID),
		zap.String("decision", string(p.Decision)),
		zap.String("status", string(out.Status)))

	return out, nil
}

// recordOnce performs one read-check-mutate-replace pass.
func (s *Service) recordOnce(ctx context.Context, p DecisionParams) (models.ValidationRequest, error) {
	var zero models.ValidationRequest

	req, err := s.requests.GetByEntityID(ctx, p.RequestID)
	if err != nil {
		return zero, err
	}

	if req.Status != models.StatusPending {
		return zero, apperr.InvalidState("request %q is already closed (%s)", req.EntityID, req.Status)
	}

	slot := req.Validator(p.ValidatorID)
	if slot == nil {
		return zero, apperr.NotFound("validator %q not found in request %q", p.ValidatorID, req.EntityID)
	}
	if slot.Status != models.StatusPending {
		return zero, apperr.InvalidState("validator %q has already decided (%s)", slot.ID, slot.Status)
	}

	if err := s.authz.CanActAs(ctx, p.DecidedBy, slot.Role); err != nil {
		return zero, err
	}

	now := time.Now().UTC()
	slot.Status = p.Decision
	slot.Comment = sanitize.Text(p.Comment)
	slot.DecidedAt = &now
	slot.DecidedBy = p.DecidedBy

	req.Status = decision.Compute(req.ValidationType, req.Validators)
	if req.Status.Terminal() {
		req.CompletedAt = &now
	}

	return s.requests.Replace(ctx, req, req.Version)
}
