package lifecycle

import "emergency-referral/internal/domain/entity"

// QueueStatuses returns the statuses that make up the actor's work queue.
// A nil result means the actor sees every referral.
func QueueStatuses(actor Actor) []entity.ReferralStatus {
	switch actor.Kind() {
	case KindTransferStaff:
		return []entity.ReferralStatus{entity.ReferralStatusPending}
	case KindTriageStaff:
		return []entity.ReferralStatus{entity.ReferralStatusWaiting}
	case KindCombined:
		return []entity.ReferralStatus{entity.ReferralStatusPending, entity.ReferralStatusWaiting}
	default:
		return nil
	}
}

// InQueue reports whether a referral with the given status belongs to the actor's queue.
func InQueue(actor Actor, status entity.ReferralStatus) bool {
	statuses := QueueStatuses(actor)
	if statuses == nil {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// FilterQueue keeps the referrals belonging to the actor's queue, preserving order.
func FilterQueue(actor Actor, referrals []entity.Referral) []entity.Referral {
	out := make([]entity.Referral, 0, len(referrals))
	for _, r := range referrals {
		if InQueue(actor, r.Status) {
			out = append(out, r)
		}
	}
	return out
}
