package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/lifecycle"
	"emergency-referral/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReferral_StartsPendingWithHistory(t *testing.T) {
	f := newReferralFixture(t)

	ref, err := f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	require.NoError(t, err)

	assert.Equal(t, string(entity.ReferralStatusPending), ref.Status)
	assert.Equal(t, string(entity.TransportStatusNone), ref.TransportStatus)
	assert.Equal(t, entity.ReferralSourceStaff, ref.Source)
	assert.Equal(t, service.FormatReferenceCode(time.Now(), 1), ref.ReferenceCode)
	require.NotNil(t, ref.CreatedBy)
	assert.Equal(t, f.edcc.ID, ref.CreatedBy.ID)
	assert.Equal(t, "1968-04-12", ref.Birthday)

	history, err := f.usecase.GetReferralHistory(ctxFor(f.edcc), ref.ID.String())
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, "", history.History[0].OldStatus)
	assert.Equal(t, string(entity.ReferralStatusPending), history.History[0].NewStatus)

	assert.Equal(t, []string{EventReferralSubmitted}, f.publisher.types())
}

func TestSubmitReferral_Anonymous(t *testing.T) {
	f := newReferralFixture(t)

	ref, err := f.usecase.SubmitReferral(anonymousCtx(), f.submitRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.ReferralSourceExternal, ref.Source)
	assert.Nil(t, ref.CreatedBy)
	assert.Equal(t, string(entity.ReferralStatusPending), ref.Status)
}

func TestSubmitReferral_ValidatesReferences(t *testing.T) {
	f := newReferralFixture(t)

	req := f.submitRequest()
	req.SpecialtyID = 999
	_, err := f.usecase.SubmitReferral(ctxFor(f.edcc), req)
	assert.ErrorIs(t, err, ErrSpecialtyNotFound)

	req = f.submitRequest()
	req.HospitalID = 999
	_, err = f.usecase.SubmitReferral(ctxFor(f.edcc), req)
	assert.ErrorIs(t, err, ErrHospitalNotFound)

	req = f.submitRequest()
	req.Birthday = "12/04/1968"
	_, err = f.usecase.SubmitReferral(ctxFor(f.edcc), req)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	req = f.submitRequest()
	req.InTransit = true
	_, err = f.usecase.SubmitReferral(ctxFor(f.edcc), req)
	assert.ErrorIs(t, err, ErrTransitInfoRequired)

	var count int64
	require.NoError(t, f.db.Model(&entity.Referral{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.publisher.types())
}

func TestSubmitReferral_RetriesOnReferenceCollision(t *testing.T) {
	f := newReferralFixture(t)
	f.sequencer.queued = []int64{1, 1, 2}

	first, err := f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	require.NoError(t, err)
	second, err := f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.ReferenceCode, "-001"), first.ReferenceCode)
	assert.True(t, strings.HasSuffix(second.ReferenceCode, "-002"), second.ReferenceCode)

	var count int64
	require.NoError(t, f.db.Model(&entity.ReferralStatusHistory{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "failed attempt must leave no history behind")
}

func TestSubmitReferral_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newReferralFixture(t)
	f.sequencer.queued = []int64{7, 7, 7, 7, 7, 7}

	_, err := f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	require.NoError(t, err)

	_, err = f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	assert.ErrorIs(t, err, ErrReferenceCodeTaken)
}

func TestSubmitReferral_InTransit(t *testing.T) {
	f := newReferralFixture(t)

	req := f.submitRequest()
	req.InTransit = true
	req.TransitInfo = transitRequest()

	ref, err := f.usecase.SubmitReferral(ctxFor(f.edcc), req)
	require.NoError(t, err)

	assert.Equal(t, string(entity.ReferralStatusPending), ref.Status)
	assert.Equal(t, string(entity.TransportStatusInTransit), ref.TransportStatus)
	require.NotNil(t, ref.TransitInfo)
	assert.Equal(t, "Maria Dela Cruz", ref.TransitInfo.WatcherName)

	history, err := f.usecase.GetReferralHistory(ctxFor(f.edcc), ref.ID.String())
	require.NoError(t, err)
	require.Len(t, history.History, 2)
	assert.Equal(t, entity.HistoryKindTriage, history.History[0].Kind)
	assert.Equal(t, entity.HistoryKindTransport, history.History[1].Kind)
}

func TestReferralLifecycle_HappyPath(t *testing.T) {
	f := newReferralFixture(t)

	ref, err := f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	require.NoError(t, err)
	id := ref.ID.String()

	ref, err = f.usecase.TransferToTriage(ctxFor(f.edcc), id, &dto.TransferReferralRequest{Notes: "Forwarded to triage"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusWaiting), ref.Status)

	ref, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), id, &dto.AcceptReferralRequest{TriageDecision: "urgent", Notes: "Cath lab on standby"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusAccepted), ref.Status)
	assert.Equal(t, string(entity.TriageDecisionUrgent), ref.TriageDecision)
	assert.Equal(t, "Cath lab on standby", ref.TriageNotes)
	require.NotNil(t, ref.AssignedTo)
	assert.Equal(t, f.triage.ID, ref.AssignedTo.ID)

	ref, err = f.usecase.CompleteReferral(ctxFor(f.triage), id, &dto.CompleteReferralRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusCompleted), ref.Status)
	assert.NotNil(t, ref.CompletedAt)

	history, err := f.usecase.GetReferralHistory(ctxFor(f.edcc), id)
	require.NoError(t, err)
	require.Len(t, history.History, 4)

	want := [][2]string{
		{"", "pending"},
		{"pending", "waiting"},
		{"waiting", "accepted"},
		{"accepted", "completed"},
	}
	for i, w := range want {
		assert.Equal(t, w[0], history.History[i].OldStatus, "entry %d", i)
		assert.Equal(t, w[1], history.History[i].NewStatus, "entry %d", i)
	}
	assert.Equal(t, "Forwarded to triage", history.History[1].Notes)

	assert.Equal(t, []string{
		EventReferralSubmitted,
		EventReferralTransferred,
		EventReferralAccepted,
		EventReferralCompleted,
	}, f.publisher.types())
}

func TestTransition_WrongRoleLeavesReferralUntouched(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusPending)

	_, err := f.usecase.TransferToTriage(ctxFor(f.triage), ref.ID.String(), &dto.TransferReferralRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)
	assert.Equal(t, entity.ReferralStatusPending, f.storedStatus(t, ref.ID))
	assert.Equal(t, int64(1), f.historyCount(t, ref.ID))

	_, err = f.usecase.TransferToTriage(ctxFor(f.admin), ref.ID.String(), &dto.TransferReferralRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	_, err = f.usecase.TransferToTriage(anonymousCtx(), ref.ID.String(), &dto.TransferReferralRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	waiting := f.submitted(t, entity.ReferralStatusWaiting)
	_, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.edcc), waiting.ID.String(), &dto.AcceptReferralRequest{TriageDecision: "emergent"})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)
	assert.Equal(t, entity.ReferralStatusWaiting, f.storedStatus(t, waiting.ID))
}

func TestAccept_CheckOrder(t *testing.T) {
	f := newReferralFixture(t)
	missing := uuid.NewString()

	_, err := f.usecase.AcceptWithTriageDecision(ctxFor(f.edcc), missing, &dto.AcceptReferralRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized, "authorization is checked before the decision")

	_, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), missing, &dto.AcceptReferralRequest{TriageDecision: "critical"})
	assert.ErrorIs(t, err, lifecycle.ErrMissingDecision, "the decision is checked before existence")

	_, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), missing, &dto.AcceptReferralRequest{TriageDecision: "emergent"})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	pending := f.submitted(t, entity.ReferralStatusPending)
	_, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), pending.ID.String(), &dto.AcceptReferralRequest{TriageDecision: "emergent"})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Equal(t, entity.ReferralStatusPending, f.storedStatus(t, pending.ID))
}

func TestAccept_MissingDecisionWritesNothing(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusWaiting)

	_, err := f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), ref.ID.String(), &dto.AcceptReferralRequest{TriageDecision: "  "})
	assert.ErrorIs(t, err, lifecycle.ErrMissingDecision)
	assert.Equal(t, entity.ReferralStatusWaiting, f.storedStatus(t, ref.ID))
	assert.Equal(t, int64(2), f.historyCount(t, ref.ID))
}

func TestCancel(t *testing.T) {
	f := newReferralFixture(t)

	pending := f.submitted(t, entity.ReferralStatusPending)
	ref, err := f.usecase.CancelReferral(ctxFor(f.edcc), pending.ID.String(), &dto.CancelReferralRequest{Reason: "Patient transferred elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusCancelled), ref.Status)
	assert.Equal(t, "Patient transferred elsewhere", ref.CancelReason)

	waiting := f.submitted(t, entity.ReferralStatusWaiting)
	_, err = f.usecase.CancelReferral(ctxFor(f.triage), waiting.ID.String(), &dto.CancelReferralRequest{Reason: "Duplicate"})
	require.NoError(t, err)

	accepted := f.submitted(t, entity.ReferralStatusAccepted)
	_, err = f.usecase.CancelReferral(ctxFor(f.admin), accepted.ID.String(), &dto.CancelReferralRequest{Reason: "Too late"})
	require.Error(t, err)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	var conflict *TransitionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "cancel", conflict.Action)
	assert.Equal(t, string(entity.ReferralStatusAccepted), conflict.Current)
	assert.Equal(t, entity.ReferralStatusAccepted, f.storedStatus(t, accepted.ID))
}

func TestTerminalStatusesRejectEveryAction(t *testing.T) {
	f := newReferralFixture(t)

	for _, status := range []entity.ReferralStatus{entity.ReferralStatusCompleted, entity.ReferralStatusCancelled} {
		ref := f.submitted(t, status)
		id := ref.ID.String()
		before := f.historyCount(t, ref.ID)

		_, err := f.usecase.TransferToTriage(ctxFor(f.edcc), id, &dto.TransferReferralRequest{})
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, status)
		_, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), id, &dto.AcceptReferralRequest{TriageDecision: "urgent"})
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, status)
		_, err = f.usecase.CompleteReferral(ctxFor(f.triage), id, &dto.CompleteReferralRequest{})
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, status)
		_, err = f.usecase.CancelReferral(ctxFor(f.edcc), id, &dto.CancelReferralRequest{Reason: "x"})
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, status)

		assert.Equal(t, status, f.storedStatus(t, ref.ID))
		assert.Equal(t, before, f.historyCount(t, ref.ID))
	}
}

func TestComplete_AssignedHandlerWithoutTriageRole(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusWaiting)

	_, err := f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), ref.ID.String(), &dto.AcceptReferralRequest{TriageDecision: "emergent"})
	require.NoError(t, err)

	_, err = f.usecase.CompleteReferral(ctxFor(f.edcc), ref.ID.String(), &dto.CompleteReferralRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	_, err = f.usecase.AssignToMe(ctxFor(f.edcc), ref.ID.String())
	require.NoError(t, err)

	done, err := f.usecase.CompleteReferral(ctxFor(f.edcc), ref.ID.String(), &dto.CompleteReferralRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusCompleted), done.Status)
}

func TestTransferToTriage_ConcurrentCallersOnlyOneWins(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusPending)

	const callers = 2
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.usecase.TransferToTriage(ctxFor(f.edcc), ref.ID.String(), &dto.TransferReferralRequest{})
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, entity.ReferralStatusWaiting, f.storedStatus(t, ref.ID))
	assert.Equal(t, int64(2), f.historyCount(t, ref.ID))
}

func TestLookupByReferenceCode(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusPending)

	got, err := f.usecase.GetReferral(ctxFor(f.edcc), strings.ToLower(ref.ReferenceCode))
	require.NoError(t, err)
	assert.Equal(t, ref.ID, got.ID)

	moved, err := f.usecase.TransferToTriage(ctxFor(f.edcc), " "+ref.ReferenceCode+" ", &dto.TransferReferralRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusWaiting), moved.Status)

	_, err = f.usecase.GetReferral(ctxFor(f.edcc), "REF-19700101-999")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestGetQueue_PerActorKind(t *testing.T) {
	f := newReferralFixture(t)
	pending := f.submitted(t, entity.ReferralStatusPending)
	waiting := f.submitted(t, entity.ReferralStatusWaiting)
	f.submitted(t, entity.ReferralStatusAccepted)

	queue, err := f.usecase.GetQueue(ctxFor(f.edcc))
	require.NoError(t, err)
	assert.Equal(t, "transfer_staff", queue.Role)
	require.Len(t, queue.Referrals, 1)
	assert.Equal(t, pending.ID, queue.Referrals[0].ID)

	queue, err = f.usecase.GetQueue(ctxFor(f.triage))
	require.NoError(t, err)
	assert.Equal(t, "triage_staff", queue.Role)
	require.Len(t, queue.Referrals, 1)
	assert.Equal(t, waiting.ID, queue.Referrals[0].ID)

	both := lifecycle.Actor{UserID: f.edcc.ID, Permissions: lifecycle.Permissions{CanTransferReferrals: true, CanTriageReferrals: true}}
	queue, err = f.usecase.GetQueue(middleware.WithActor(context.Background(), both))
	require.NoError(t, err)
	assert.Equal(t, "combined", queue.Role)
	assert.Equal(t, 2, queue.Total)

	queue, err = f.usecase.GetQueue(ctxFor(f.admin))
	require.NoError(t, err)
	assert.Equal(t, "viewer", queue.Role)
	assert.Equal(t, 3, queue.Total)
	assert.Empty(t, queue.Statuses)
}

func TestGetQueue_HandoffMovesBetweenQueues(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusPending)

	_, err := f.usecase.TransferToTriage(ctxFor(f.edcc), ref.ID.String(), &dto.TransferReferralRequest{})
	require.NoError(t, err)

	edccQueue, err := f.usecase.GetQueue(ctxFor(f.edcc))
	require.NoError(t, err)
	assert.Zero(t, edccQueue.Total)

	triageQueue, err := f.usecase.GetQueue(ctxFor(f.triage))
	require.NoError(t, err)
	assert.Equal(t, 1, triageQueue.Total)
}

func TestTransport(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusPending)
	id := ref.ID.String()

	_, err := f.usecase.DispatchTransport(ctxFor(f.edcc), id, &dto.TransportRequest{})
	require.Error(t, err)
	var conflict *TransitionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "missing transit info", conflict.Current)

	_, err = f.usecase.UpsertTransitInfo(anonymousCtx(), id, transitRequest())
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	withInfo, err := f.usecase.UpsertTransitInfo(ctxFor(f.edcc), id, transitRequest())
	require.NoError(t, err)
	require.NotNil(t, withInfo.TransitInfo)

	update := transitRequest()
	update.Driver = "Jose"
	withInfo, err = f.usecase.UpsertTransitInfo(ctxFor(f.edcc), id, update)
	require.NoError(t, err)
	assert.Equal(t, "Jose", withInfo.TransitInfo.Driver)

	var infos int64
	require.NoError(t, f.db.Model(&entity.TransitInfo{}).Where("referral_id = ?", ref.ID).Count(&infos).Error)
	assert.Equal(t, int64(1), infos)

	_, err = f.usecase.ArriveTransport(ctxFor(f.edcc), id, &dto.TransportRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	dispatched, err := f.usecase.DispatchTransport(ctxFor(f.edcc), id, &dto.TransportRequest{Notes: "Left referring facility"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransportStatusInTransit), dispatched.TransportStatus)
	assert.Equal(t, string(entity.ReferralStatusPending), dispatched.Status, "transport never moves the triage status")

	arrived, err := f.usecase.ArriveTransport(ctxFor(f.triage), id, &dto.TransportRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransportStatusArrived), arrived.TransportStatus)

	_, err = f.usecase.DispatchTransport(ctxFor(f.edcc), id, &dto.TransportRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	assert.Equal(t, []string{EventReferralSubmitted, EventReferralDispatched, EventReferralArrived}, f.publisher.types())
}

func TestAssignToMe(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusWaiting)

	_, err := f.usecase.AssignToMe(anonymousCtx(), ref.ID.String())
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	assigned, err := f.usecase.AssignToMe(ctxFor(f.triage), ref.ID.String())
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, f.triage.ID, assigned.AssignedTo.ID)
	assert.Equal(t, string(entity.ReferralStatusWaiting), assigned.Status)

	mine, err := f.usecase.GetMyReferrals(ctxFor(f.triage), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)
	assert.Equal(t, 1, mine.Page)
	assert.Equal(t, defaultReferralLimit, mine.Limit)

	cancelled := f.submitted(t, entity.ReferralStatusCancelled)
	_, err = f.usecase.AssignToMe(ctxFor(f.triage), cancelled.ID.String())
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestListReferrals_Filters(t *testing.T) {
	f := newReferralFixture(t)
	f.submitted(t, entity.ReferralStatusPending)
	f.submitted(t, entity.ReferralStatusWaiting)

	req := f.submitRequest()
	req.PatientFullName = "Ana Reyes"
	req.IsUrgent = true
	_, err := f.usecase.SubmitReferral(ctxFor(f.edcc), req)
	require.NoError(t, err)

	all, err := f.usecase.ListReferrals(ctxFor(f.admin), &dto.ReferralListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	pending, err := f.usecase.ListReferrals(ctxFor(f.admin), &dto.ReferralListQuery{Status: []string{"pending"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending.Total)

	urgent := true
	found, err := f.usecase.ListReferrals(ctxFor(f.admin), &dto.ReferralListQuery{IsUrgent: &urgent})
	require.NoError(t, err)
	require.Len(t, found.Referrals, 1)
	assert.Equal(t, "Ana Reyes", found.Referrals[0].PatientFullName)

	searched, err := f.usecase.ListReferrals(ctxFor(f.admin), &dto.ReferralListQuery{Search: "reyes"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), searched.Total)

	paged, err := f.usecase.ListReferrals(ctxFor(f.admin), &dto.ReferralListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), paged.Total)
	assert.Len(t, paged.Referrals, 1)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newReferralFixture(t)
	ref := f.submitted(t, entity.ReferralStatusPending)
	f.publisher.err = errBrokerDown

	moved, err := f.usecase.TransferToTriage(ctxFor(f.edcc), ref.ID.String(), &dto.TransferReferralRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusWaiting), moved.Status)
	assert.Equal(t, entity.ReferralStatusWaiting, f.storedStatus(t, ref.ID))
}

func TestTransitions_AreAudited(t *testing.T) {
	f := newReferralFixture(t)
	f.submitted(t, entity.ReferralStatusCompleted)

	var actions []string
	require.NoError(t, f.db.Model(&entity.AuditLog{}).Order("id ASC").Pluck("action", &actions).Error)
	assert.Equal(t, []string{
		entity.AuditActionReferralSubmit,
		entity.AuditActionReferralTransfer,
		entity.AuditActionReferralAccept,
		entity.AuditActionReferralComplete,
	}, actions)
}
