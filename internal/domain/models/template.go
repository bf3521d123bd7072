package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template statuses. Only active templates may be used to open new
// validation requests.
const (
	TemplateStatusActive   = "active"
	TemplateStatusDraft    = "draft"
	TemplateStatusArchived = "archived"
)

// Template describes a class of books and the ordered, role-based set of
// validators required to approve them. Templates are authored in the back
// office; this service reads them and never writes them.
type Template struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"-"`

	// EntityID is the business identifier callers use; unique.
	EntityID string `bson:"entityId" json:"entityId"`

	Title  []InternationalizedString `bson:"title,omitempty" json:"title,omitempty"`
	Status string                    `bson:"status" json:"status"`

	// RequiredValidators may be empty; a request created from such a
	// template has no slots and resolves immediately.
	RequiredValidators []ValidatorRequirement `bson:"requiredValidators,omitempty" json:"requiredValidators,omitempty"`
}

// ValidatorRequirement is one role that must weigh in on books created
// from this template.
type ValidatorRequirement struct {
	// Role is the authorization role expected to act on this slot,
	// e.g. "quality_manager" or "content_editor".
	Role string `bson:"role" json:"role"`

	Title []InternationalizedString `bson:"title,omitempty" json:"title,omitempty"`

	// Order groups validators into waves (1 = first). Validators of equal
	// order may decide concurrently; this service stores the value but
	// does not enforce sequencing.
	Order int `bson:"order" json:"order"`

	// Mandatory slots are the only ones counted by the status algorithm.
	Mandatory bool `bson:"mandatory" json:"mandatory"`
}

// DisplayTitle resolves the template title for denormalized links,
// falling back to the business id.
func (t Template) DisplayTitle() string {
	return FirstValue(t.Title, t.EntityID)
}
