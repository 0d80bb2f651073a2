package lifecycle

import "emergency-referral/internal/domain/entity"

// TransportAction moves a referral through the ambulance transport states.
type TransportAction string

const (
	TransportDispatch TransportAction = "dispatch"
	TransportArrive   TransportAction = "arrive"
)

var transportTransitions = map[TransportAction]struct {
	from entity.TransportStatus
	to   entity.TransportStatus
}{
	TransportDispatch: {from: entity.TransportStatusNone, to: entity.TransportStatusInTransit},
	TransportArrive:   {from: entity.TransportStatusInTransit, to: entity.TransportStatusArrived},
}

// NextTransport returns the transport status reached by applying action.
// Dispatch additionally requires transit details to be on file and a referral
// that is still open.
func NextTransport(ref *entity.Referral, action TransportAction) (entity.TransportStatus, error) {
	t, ok := transportTransitions[action]
	if !ok || ref.TransportStatus != t.from {
		return ref.TransportStatus, ErrInvalidTransition
	}
	if action == TransportDispatch {
		if ref.TransitInfo == nil || isClosed(ref.Status) {
			return ref.TransportStatus, ErrInvalidTransition
		}
	}
	return t.to, nil
}

func isClosed(s entity.ReferralStatus) bool {
	return s == entity.ReferralStatusCompleted || s == entity.ReferralStatusCancelled
}

// TransportSource returns the compare-and-set guard for a transport action.
func TransportSource(action TransportAction) (entity.TransportStatus, bool) {
	t, ok := transportTransitions[action]
	return t.from, ok
}

// AuthorizeTransport allows any staff member with write access.
func AuthorizeTransport(actor Actor) error {
	if !actor.HasWriteAccess() {
		return ErrUnauthorized
	}
	return nil
}
