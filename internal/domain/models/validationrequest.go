package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the decision state shared by requests and their validator
// slots: pending until decided, then approved or rejected. Approved and
// rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further decisions are accepted.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ValidationType is the aggregation policy mapping individual decisions
// to the request's global status.
type ValidationType string

const (
	// ValidationAll requires every mandatory validator to approve.
	ValidationAll ValidationType = "all"
	// ValidationMajority requires a strict majority of mandatory validators.
	ValidationMajority ValidationType = "majority"
	// ValidationAny approves on the first mandatory approval.
	ValidationAny ValidationType = "any"
)

// TemplateLink is the denormalized snapshot of the template a request was
// created from. It is a value copy taken at creation time, not a live
// reference; later template edits never affect in-flight requests.
type TemplateLink struct {
	EntityID string `bson:"entityId" json:"entityId"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
}

// ValidationRequest tracks one book routed through the validator set of
// one template snapshot. It is the aggregate root: validator slots are
// owned by the request and only ever mutated through it.
type ValidationRequest struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"-"`

	// EntityID is the generated business identifier; unique.
	EntityID string `bson:"entityId" json:"entityId"`

	BookID    string `bson:"bookId" json:"bookId"`
	BookTitle string `bson:"bookTitle,omitempty" json:"bookTitle,omitempty"`

	Template TemplateLink `bson:"template" json:"template"`

	// Status is derived from the validator slots; never set by callers.
	Status Status `bson:"status" json:"status"`

	// ValidationType is fixed at creation and immutable thereafter.
	ValidationType ValidationType `bson:"validationType" json:"validationType"`

	// Validators are snapshotted from the template at creation; count and
	// roles are frozen for the life of the request.
	Validators []ValidatorAssignment `bson:"validators" json:"validators"`

	CreatedBy   string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	RequestMessage string `bson:"requestMessage,omitempty" json:"requestMessage,omitempty"`

	// Version backs the optimistic write: every replace is conditioned on
	// the version read and increments it, so concurrent decisions on the
	// same request cannot silently clobber each other.
	Version int64 `bson:"version" json:"-"`
}

// Validator returns the slot with the given id, or nil.
func (r *ValidationRequest) Validator(slotID string) *ValidatorAssignment {
	for i := range r.Validators {
		if r.Validators[i].ID == slotID {
			return &r.Validators[i]
		}
	}
	return nil
}

// ValidatorAssignment is one validator's slot and decision within a
// request. Its status flips from pending exactly once.
type ValidatorAssignment struct {
	// ID identifies the slot within its request.
	ID string `bson:"id" json:"id"`

	// Role is the authorization role entitled to act on this slot.
	Role string `bson:"role" json:"role"`

	// UserID and DisplayName target a specific person when the assignment
	// is not role-generic.
	UserID      string `bson:"userId,omitempty" json:"userId,omitempty"`
	DisplayName string `bson:"displayName,omitempty" json:"displayName,omitempty"`

	Status Status `bson:"status" json:"status"`

	Comment   string     `bson:"comment,omitempty" json:"comment,omitempty"`
	DecidedAt *time.Time `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
	DecidedBy string     `bson:"decidedBy,omitempty" json:"decidedBy,omitempty"`

	// Order mirrors the template requirement; stored, not enforced.
	Order int `bson:"order" json:"order"`

	// Mandatory slots participate in the global-status algorithm;
	// non-mandatory slots are informational only.
	Mandatory bool `bson:"mandatory" json:"mandatory"`
}

// NewEntityID generates a business identifier in the compact hex form the
// existing collections use (GUID without dashes).
func NewEntityID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
