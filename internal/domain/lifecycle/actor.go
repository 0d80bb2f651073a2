package lifecycle

import "github.com/google/uuid"

// Permissions are the capability flags carried by an authenticated caller.
type Permissions struct {
	CanTransferReferrals bool `json:"can_transfer_referrals"`
	CanTriageReferrals   bool `json:"can_triage_referrals"`
	IsAdmin              bool `json:"is_admin"`
}

// Kind is the closed set of queue roles an actor can hold.
type Kind int

const (
	KindViewer Kind = iota
	KindTransferStaff
	KindTriageStaff
	KindCombined
)

func (k Kind) String() string {
	switch k {
	case KindTransferStaff:
		return "transfer_staff"
	case KindTriageStaff:
		return "triage_staff"
	case KindCombined:
		return "combined"
	default:
		return "viewer"
	}
}

// Actor is the caller of a lifecycle operation. The zero UserID together with
// Anonymous marks an unauthenticated external referrer.
type Actor struct {
	UserID      uuid.UUID
	Anonymous   bool
	Permissions Permissions
}

// AnonymousActor returns the actor used for public referral submissions.
func AnonymousActor() Actor {
	return Actor{Anonymous: true}
}

// Kind resolves the two capability flags into a single queue role.
func (a Actor) Kind() Kind {
	switch {
	case a.Permissions.CanTransferReferrals && a.Permissions.CanTriageReferrals:
		return KindCombined
	case a.Permissions.CanTransferReferrals:
		return KindTransferStaff
	case a.Permissions.CanTriageReferrals:
		return KindTriageStaff
	default:
		return KindViewer
	}
}

// HasWriteAccess reports whether the actor may perform generic mutations such as cancel.
func (a Actor) HasWriteAccess() bool {
	if a.Anonymous {
		return false
	}
	p := a.Permissions
	return p.CanTransferReferrals || p.CanTriageReferrals || p.IsAdmin
}

// UserIDPtr returns a pointer to the actor's user ID, or nil for anonymous callers.
func (a Actor) UserIDPtr() *uuid.UUID {
	if a.Anonymous || a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}
