// Package decision computes the global status of a validation request
// from its validator slots. It is pure: no storage, no clocks, no
// side effects, and it never fails. An unrecognized policy yields
// pending so a newer deployment's data can't wedge an older reader.
package decision

import (
	"github.com/bookworks/middleoffice/internal/domain/models"
)

// Compute derives the request status from the aggregation policy and the
// current slot set. Only mandatory slots are counted; non-mandatory
// slots never block approval or rejection.
//
// Policy semantics (empty set of mandatory slots in parentheses):
//   - all: any rejection rejects; otherwise approved once every slot is
//     approved (vacuously approved when there are none).
//   - majority: approved or rejected only on a strict majority, integer
//     division (pending when there are none: 0 > 0 never holds).
//   - any: one approval approves; rejected only when every slot rejected
//     (vacuously rejected when there are none; "all rejected" over an
//     empty set is true; kept for compatibility with stored data).
func Compute(vt models.ValidationType, validators []models.ValidatorAssignment) models.Status {
	var total, approved, rejected int
	for _, v := range validators {
		if !v.Mandatory {
			continue
		}
		total++
		switch v.Status {
		case models.StatusApproved:
			approved++
		case models.StatusRejected:
			rejected++
		}
	}

	switch vt {
	case models.ValidationAll:
		if rejected > 0 {
			return models.StatusRejected
		}
		if approved == total {
			return models.StatusApproved
		}
		return models.StatusPending

	case models.ValidationMajority:
		if approved > total/2 {
			return models.StatusApproved
		}
		if rejected > total/2 {
			return models.StatusRejected
		}
		return models.StatusPending

	case models.ValidationAny:
		if approved > 0 {
			return models.StatusApproved
		}
		if rejected == total {
			return models.StatusRejected
		}
		return models.StatusPending

	default:
		return models.StatusPending
	}
}
