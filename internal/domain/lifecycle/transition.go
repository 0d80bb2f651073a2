// Package lifecycle holds the referral state machines, the role checks guarding
// each transition and the queue rules deciding which referrals an actor works on.
// It performs no I/O; persistence applies its decisions with a compare-and-set.
package lifecycle

import (
	"errors"

	"emergency-referral/internal/domain/entity"
)

var (
	ErrUnauthorized      = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition = errors.New("referral status does not permit this action")
	ErrMissingDecision   = errors.New("a valid triage decision is required (emergent, urgent, or schedule_opd)")
	ErrNotFound          = errors.New("referral not found")
)

// Action names a triage status transition.
type Action string

const (
	ActionSubmit           Action = "submit"
	ActionTransferToTriage Action = "transfer_to_triage"
	ActionAccept           Action = "accept_with_triage_decision"
	ActionComplete         Action = "complete"
	ActionCancel           Action = "cancel"
)

type edge struct {
	from []entity.ReferralStatus
	to   entity.ReferralStatus
}

// triageTransitions is the only source of legal triage moves. Submit has no
// source status; it is handled by InitialStatus.
var triageTransitions = map[Action]edge{
	ActionTransferToTriage: {from: []entity.ReferralStatus{entity.ReferralStatusPending}, to: entity.ReferralStatusWaiting},
	ActionAccept:           {from: []entity.ReferralStatus{entity.ReferralStatusWaiting}, to: entity.ReferralStatusAccepted},
	ActionComplete:         {from: []entity.ReferralStatus{entity.ReferralStatusAccepted}, to: entity.ReferralStatusCompleted},
	ActionCancel:           {from: []entity.ReferralStatus{entity.ReferralStatusPending, entity.ReferralStatusWaiting}, to: entity.ReferralStatusCancelled},
}

// InitialStatus is the status every submitted referral starts in.
func InitialStatus() entity.ReferralStatus {
	return entity.ReferralStatusPending
}

// Next returns the status reached by applying action to from.
func Next(from entity.ReferralStatus, action Action) (entity.ReferralStatus, error) {
	e, ok := triageTransitions[action]
	if !ok {
		return from, ErrInvalidTransition
	}
	for _, s := range e.from {
		if s == from {
			return e.to, nil
		}
	}
	return from, ErrInvalidTransition
}

// SourceStatuses returns the statuses action may be applied from. The
// persistence layer uses them as the compare-and-set guard.
func SourceStatuses(action Action) []entity.ReferralStatus {
	e, ok := triageTransitions[action]
	if !ok {
		return nil
	}
	out := make([]entity.ReferralStatus, len(e.from))
	copy(out, e.from)
	return out
}

// IsLegal reports whether from -> to is an edge of the triage state machine.
func IsLegal(from, to entity.ReferralStatus) bool {
	for _, e := range triageTransitions {
		if e.to != to {
			continue
		}
		for _, s := range e.from {
			if s == from {
				return true
			}
		}
	}
	return false
}

// Authorize checks the actor may invoke action. The referral is only consulted
// for complete, where the assigned handler is allowed regardless of role.
func Authorize(actor Actor, action Action, ref *entity.Referral) error {
	switch action {
	case ActionSubmit:
		return nil
	case ActionTransferToTriage:
		if actor.Anonymous || !actor.Permissions.CanTransferReferrals {
			return ErrUnauthorized
		}
	case ActionAccept:
		if actor.Anonymous || !actor.Permissions.CanTriageReferrals {
			return ErrUnauthorized
		}
	case ActionComplete:
		if actor.Anonymous {
			return ErrUnauthorized
		}
		if actor.Permissions.CanTriageReferrals {
			return nil
		}
		if ref != nil && ref.IsAssignedTo(actor.UserID) {
			return nil
		}
		return ErrUnauthorized
	case ActionCancel:
		if !actor.HasWriteAccess() {
			return ErrUnauthorized
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ValidateDecision rejects an empty or unknown triage decision.
func ValidateDecision(d entity.TriageDecision) error {
	if !d.Valid() {
		return ErrMissingDecision
	}
	return nil
}
