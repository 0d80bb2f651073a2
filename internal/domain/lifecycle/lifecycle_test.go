package lifecycle

import (
	"testing"

	"emergency-referral/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	transferStaff = Actor{UserID: uuid.New(), Permissions: Permissions{CanTransferReferrals: true}}
	triageStaff   = Actor{UserID: uuid.New(), Permissions: Permissions{CanTriageReferrals: true}}
	combined      = Actor{UserID: uuid.New(), Permissions: Permissions{CanTransferReferrals: true, CanTriageReferrals: true}}
	admin         = Actor{UserID: uuid.New(), Permissions: Permissions{IsAdmin: true}}
	viewer        = Actor{UserID: uuid.New()}
	anonymous     = AnonymousActor()
)

func TestNext_LegalEdges(t *testing.T) {
	cases := []struct {
		from   entity.ReferralStatus
		action Action
		to     entity.ReferralStatus
	}{
		{entity.ReferralStatusPending, ActionTransferToTriage, entity.ReferralStatusWaiting},
		{entity.ReferralStatusWaiting, ActionAccept, entity.ReferralStatusAccepted},
		{entity.ReferralStatusAccepted, ActionComplete, entity.ReferralStatusCompleted},
		{entity.ReferralStatusPending, ActionCancel, entity.ReferralStatusCancelled},
		{entity.ReferralStatusWaiting, ActionCancel, entity.ReferralStatusCancelled},
	}
	for _, tc := range cases {
		got, err := Next(tc.from, tc.action)
		require.NoError(t, err, "%s from %s", tc.action, tc.from)
		assert.Equal(t, tc.to, got)
		assert.True(t, IsLegal(tc.from, tc.to))
	}
}

func TestNext_EveryOtherEdgeIsRejected(t *testing.T) {
	actions := []Action{ActionTransferToTriage, ActionAccept, ActionComplete, ActionCancel}
	for _, from := range entity.ReferralStatuses {
		for _, action := range actions {
			to, err := Next(from, action)
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, from, to, "failed transition must not move status")
				continue
			}
			assert.True(t, IsLegal(from, to), "%s -> %s via %s", from, to, action)
		}
	}
}

func TestNext_NoUndoOfTransfer(t *testing.T) {
	assert.False(t, IsLegal(entity.ReferralStatusWaiting, entity.ReferralStatusPending))
	assert.False(t, IsLegal(entity.ReferralStatusAccepted, entity.ReferralStatusCancelled))
	assert.False(t, IsLegal(entity.ReferralStatusCompleted, entity.ReferralStatusCancelled))
}

func TestNext_UnknownAction(t *testing.T) {
	_, err := Next(entity.ReferralStatusPending, Action("reopen"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, SourceStatuses(Action("reopen")))
}

func TestSourceStatuses_ReturnsCopy(t *testing.T) {
	src := SourceStatuses(ActionCancel)
	require.Len(t, src, 2)
	src[0] = entity.ReferralStatusCompleted
	assert.Equal(t, entity.ReferralStatusPending, SourceStatuses(ActionCancel)[0])
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, entity.ReferralStatusPending, InitialStatus())
	assert.NoError(t, Authorize(anonymous, ActionSubmit, nil))
	assert.NoError(t, Authorize(transferStaff, ActionSubmit, nil))
}

func TestAuthorize_Transfer(t *testing.T) {
	assert.NoError(t, Authorize(transferStaff, ActionTransferToTriage, nil))
	assert.NoError(t, Authorize(combined, ActionTransferToTriage, nil))
	assert.ErrorIs(t, Authorize(triageStaff, ActionTransferToTriage, nil), ErrUnauthorized)
	assert.ErrorIs(t, Authorize(admin, ActionTransferToTriage, nil), ErrUnauthorized)
	assert.ErrorIs(t, Authorize(anonymous, ActionTransferToTriage, nil), ErrUnauthorized)
}

func TestAuthorize_Accept(t *testing.T) {
	assert.NoError(t, Authorize(triageStaff, ActionAccept, nil))
	assert.ErrorIs(t, Authorize(transferStaff, ActionAccept, nil), ErrUnauthorized)
	assert.ErrorIs(t, Authorize(viewer, ActionAccept, nil), ErrUnauthorized)
}

func TestAuthorize_CompleteAllowsAssignedHandler(t *testing.T) {
	ref := &entity.Referral{Status: entity.ReferralStatusAccepted}
	assert.NoError(t, Authorize(triageStaff, ActionComplete, ref))
	assert.ErrorIs(t, Authorize(transferStaff, ActionComplete, ref), ErrUnauthorized)

	handler := transferStaff.UserID
	ref.AssignedToID = &handler
	assert.NoError(t, Authorize(transferStaff, ActionComplete, ref))
	assert.ErrorIs(t, Authorize(anonymous, ActionComplete, ref), ErrUnauthorized)
}

func TestAuthorize_Cancel(t *testing.T) {
	for _, a := range []Actor{transferStaff, triageStaff, combined, admin} {
		assert.NoError(t, Authorize(a, ActionCancel, nil))
	}
	assert.ErrorIs(t, Authorize(viewer, ActionCancel, nil), ErrUnauthorized)
	assert.ErrorIs(t, Authorize(anonymous, ActionCancel, nil), ErrUnauthorized)
}

func TestValidateDecision(t *testing.T) {
	assert.ErrorIs(t, ValidateDecision(""), ErrMissingDecision)
	assert.ErrorIs(t, ValidateDecision("critical"), ErrMissingDecision)
	for _, d := range []entity.TriageDecision{entity.TriageDecisionEmergent, entity.TriageDecisionUrgent, entity.TriageDecisionScheduleOPD} {
		assert.NoError(t, ValidateDecision(d))
	}
}

func TestActorKind(t *testing.T) {
	assert.Equal(t, KindTransferStaff, transferStaff.Kind())
	assert.Equal(t, KindTriageStaff, triageStaff.Kind())
	assert.Equal(t, KindCombined, combined.Kind())
	assert.Equal(t, KindViewer, admin.Kind())
	assert.Equal(t, KindViewer, anonymous.Kind())
	assert.Equal(t, "combined", KindCombined.String())
	assert.Nil(t, anonymous.UserIDPtr())
	require.NotNil(t, admin.UserIDPtr())
	assert.Equal(t, admin.UserID, *admin.UserIDPtr())
}

func TestQueue(t *testing.T) {
	refs := make([]entity.Referral, 0, len(entity.ReferralStatuses))
	for _, s := range entity.ReferralStatuses {
		refs = append(refs, entity.Referral{ID: uuid.New(), Status: s})
	}

	onlyStatuses := func(rs []entity.Referral) []entity.ReferralStatus {
		var out []entity.ReferralStatus
		for _, r := range rs {
			out = append(out, r.Status)
		}
		return out
	}

	assert.Equal(t, []entity.ReferralStatus{entity.ReferralStatusPending}, onlyStatuses(FilterQueue(transferStaff, refs)))
	assert.Equal(t, []entity.ReferralStatus{entity.ReferralStatusWaiting}, onlyStatuses(FilterQueue(triageStaff, refs)))
	assert.Equal(t, []entity.ReferralStatus{entity.ReferralStatusPending, entity.ReferralStatusWaiting}, onlyStatuses(FilterQueue(combined, refs)))
	assert.Len(t, FilterQueue(viewer, refs), len(refs))
	assert.Len(t, FilterQueue(admin, refs), len(refs))
	assert.Nil(t, QueueStatuses(viewer))
}

func TestQueue_IsIdempotent(t *testing.T) {
	refs := []entity.Referral{
		{ID: uuid.New(), Status: entity.ReferralStatusWaiting},
		{ID: uuid.New(), Status: entity.ReferralStatusAccepted},
		{ID: uuid.New(), Status: entity.ReferralStatusWaiting},
	}
	first := FilterQueue(triageStaff, refs)
	second := FilterQueue(triageStaff, refs)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestQueue_HandoffMovesReferralBetweenQueues(t *testing.T) {
	next, err := Next(entity.ReferralStatusPending, ActionTransferToTriage)
	require.NoError(t, err)
	assert.False(t, InQueue(transferStaff, next))
	assert.True(t, InQueue(triageStaff, next))

	accepted, err := Next(next, ActionAccept)
	require.NoError(t, err)
	assert.False(t, InQueue(triageStaff, accepted))
}

func TestNextTransport(t *testing.T) {
	ref := &entity.Referral{TransportStatus: entity.TransportStatusNone}
	_, err := NextTransport(ref, TransportDispatch)
	assert.ErrorIs(t, err, ErrInvalidTransition, "dispatch needs transit info")

	ref.TransitInfo = &entity.TransitInfo{WatcherName: "Ana"}
	next, err := NextTransport(ref, TransportDispatch)
	require.NoError(t, err)
	assert.Equal(t, entity.TransportStatusInTransit, next)

	_, err = NextTransport(ref, TransportArrive)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	ref.TransportStatus = next
	arrived, err := NextTransport(ref, TransportArrive)
	require.NoError(t, err)
	assert.Equal(t, entity.TransportStatusArrived, arrived)

	from, ok := TransportSource(TransportArrive)
	assert.True(t, ok)
	assert.Equal(t, entity.TransportStatusInTransit, from)
}

func TestNextTransport_ClosedReferralCannotDispatch(t *testing.T) {
	ref := &entity.Referral{
		Status:          entity.ReferralStatusCancelled,
		TransportStatus: entity.TransportStatusNone,
		TransitInfo:     &entity.TransitInfo{WatcherName: "Ana"},
	}
	_, err := NextTransport(ref, TransportDispatch)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	ref.Status = entity.ReferralStatusAccepted
	_, err = NextTransport(ref, TransportDispatch)
	assert.NoError(t, err)
}

func TestAuthorizeTransport(t *testing.T) {
	assert.NoError(t, AuthorizeTransport(transferStaff))
	assert.ErrorIs(t, AuthorizeTransport(viewer), ErrUnauthorized)
	assert.ErrorIs(t, AuthorizeTransport(anonymous), ErrUnauthorized)
}
