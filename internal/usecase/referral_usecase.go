package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"emergency-referral/internal/converter"
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/lifecycle"
	"emergency-referral/internal/domain/repository"
	"emergency-referral/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSpecialtyNotFound   = errors.New("specialty not found")
	ErrHospitalNotFound    = errors.New("hospital not found")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrTransitInfoRequired = errors.New("transit info is required when the patient is already in transit")
	ErrReferenceCodeTaken  = errors.New("could not allocate a unique reference code, retry the submission")
)

const (
	maxReferenceAttempts = 5
	defaultReferralLimit = 20
	maxReferralLimit     = 100

	entityReferral = "referral"

	EventReferralSubmitted   = "referral.submitted"
	EventReferralTransferred = "referral.transferred"
	EventReferralAccepted    = "referral.accepted"
	EventReferralCompleted   = "referral.completed"
	EventReferralCancelled   = "referral.cancelled"
	EventReferralDispatched  = "referral.dispatched"
	EventReferralArrived     = "referral.arrived"
)

// TransitionConflictError is returned when the stored status does not permit
// the requested action, including when a concurrent caller got there first.
type TransitionConflictError struct {
	Action  string
	Current string
}

func (e *TransitionConflictError) Error() string {
	return fmt.Sprintf("cannot %s a referral that is %s; it may have been updated by someone else, refresh and try again", e.Action, e.Current)
}

func (e *TransitionConflictError) Unwrap() error {
	return lifecycle.ErrInvalidTransition
}

var actionVerbs = map[lifecycle.Action]string{
	lifecycle.ActionTransferToTriage: "transfer",
	lifecycle.ActionAccept:           "accept",
	lifecycle.ActionComplete:         "complete",
	lifecycle.ActionCancel:           "cancel",
}

var transportVerbs = map[lifecycle.TransportAction]string{
	lifecycle.TransportDispatch: "dispatch",
	lifecycle.TransportArrive:   "mark as arrived",
}

type ReferralUsecase interface {
	SubmitReferral(ctx context.Context, req *dto.SubmitReferralRequest) (*dto.ReferralResponse, error)
	TransferToTriage(ctx context.Context, key string, req *dto.TransferReferralRequest) (*dto.ReferralResponse, error)
	AcceptWithTriageDecision(ctx context.Context, key string, req *dto.AcceptReferralRequest) (*dto.ReferralResponse, error)
	CompleteReferral(ctx context.Context, key string, req *dto.CompleteReferralRequest) (*dto.ReferralResponse, error)
	CancelReferral(ctx context.Context, key string, req *dto.CancelReferralRequest) (*dto.ReferralResponse, error)
	AssignToMe(ctx context.Context, key string) (*dto.ReferralResponse, error)
	DispatchTransport(ctx context.Context, key string, req *dto.TransportRequest) (*dto.ReferralResponse, error)
	ArriveTransport(ctx context.Context, key string, req *dto.TransportRequest) (*dto.ReferralResponse, error)
	UpsertTransitInfo(ctx context.Context, key string, req *dto.TransitInfoRequest) (*dto.ReferralResponse, error)
	GetReferral(ctx context.Context, key string) (*dto.ReferralResponse, error)
	GetReferralHistory(ctx context.Context, key string) (*dto.StatusHistoryListResponse, error)
	ListReferrals(ctx context.Context, query *dto.ReferralListQuery) (*dto.ReferralListResponse, error)
	GetQueue(ctx context.Context) (*dto.QueueResponse, error)
	GetMyReferrals(ctx context.Context, page, limit int) (*dto.ReferralListResponse, error)
}

type referralUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	referralRepo      repository.ReferralRepository
	transitInfoRepo   repository.TransitInfoRepository
	statusHistoryRepo repository.StatusHistoryRepository
	hospitalRepo      repository.HospitalRepository
	specialtyRepo     repository.SpecialtyRepository
	auditService      service.AuditService
	sequencer         service.ReferenceSequencer
	publisher         service.EventPublisher
}

func NewReferralUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	referralRepo repository.ReferralRepository,
	transitInfoRepo repository.TransitInfoRepository,
	statusHistoryRepo repository.StatusHistoryRepository,
	hospitalRepo repository.HospitalRepository,
	specialtyRepo repository.SpecialtyRepository,
	auditService service.AuditService,
	sequencer service.ReferenceSequencer,
	publisher service.EventPublisher,
) ReferralUsecase {
	return &referralUsecase{
		db:                db,
		log:               log,
		referralRepo:      referralRepo,
		transitInfoRepo:   transitInfoRepo,
		statusHistoryRepo: statusHistoryRepo,
		hospitalRepo:      hospitalRepo,
		specialtyRepo:     specialtyRepo,
		auditService:      auditService,
		sequencer:         sequencer,
		publisher:         publisher,
	}
}

// SubmitReferral creates a referral in the initial status.
//
// Flow:
// 1. Validate references (specialty, hospital) and transit details
// 2. Reserve the day's next sequence number and build the reference code
// 3. Insert referral, transit info, history and audit entry in one transaction
// 4. On a reference code collision, reserve a new number and retry
func (u *referralUsecase) SubmitReferral(ctx context.Context, req *dto.SubmitReferralRequest) (*dto.ReferralResponse, error) {
	actor := middleware.GetActorFromContext(ctx)
	if err := lifecycle.Authorize(actor, lifecycle.ActionSubmit, nil); err != nil {
		return nil, err
	}

	if req.InTransit && req.TransitInfo == nil {
		return nil, ErrTransitInfoRequired
	}

	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	specialty, err := u.specialtyRepo.FindByID(u.db.WithContext(ctx), req.SpecialtyID)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", req.SpecialtyID, err)
		return nil, err
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}

	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), req.HospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", req.HospitalID, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		now := time.Now()
		seq, err := u.sequencer.Next(ctx, now)
		if err != nil {
			u.log.Warnf("Failed to reserve reference sequence: %+v", err)
			return nil, err
		}

		referral := newReferralFromRequest(req, actor, birthday)
		referral.ReferenceCode = service.FormatReferenceCode(now, seq)

		history, err := u.createReferral(ctx, referral, actor)
		if err != nil {
			if isDuplicateKeyError(err, "reference_code") {
				u.log.Warnf("Reference code %s already taken (attempt %d), retrying", referral.ReferenceCode, attempt)
				continue
			}
			u.log.Warnf("Failed to create referral: %+v", err)
			return nil, err
		}

		u.log.Infof("Referral submitted: code=%s, source=%s, urgent=%t", referral.ReferenceCode, referral.Source, referral.IsUrgent)
		u.publish(ctx, EventReferralSubmitted, referral, history)
		return u.reload(ctx, referral.ID)
	}

	u.log.Errorf("Gave up allocating a reference code after %d attempts", maxReferenceAttempts)
	return nil, ErrReferenceCodeTaken
}

func (u *referralUsecase) createReferral(ctx context.Context, referral *entity.Referral, actor lifecycle.Actor) (*entity.ReferralStatusHistory, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.referralRepo.Create(tx, referral); err != nil {
		return nil, err
	}

	history := &entity.ReferralStatusHistory{
		ReferralID:  referral.ID,
		Kind:        entity.HistoryKindTriage,
		NewStatus:   string(referral.Status),
		ChangedByID: actor.UserIDPtr(),
		Notes:       "Referral submitted",
	}
	if err := u.statusHistoryRepo.Create(tx, history); err != nil {
		return nil, err
	}

	if referral.TransportStatus == entity.TransportStatusInTransit {
		transport := &entity.ReferralStatusHistory{
			ReferralID:  referral.ID,
			Kind:        entity.HistoryKindTransport,
			OldStatus:   string(entity.TransportStatusNone),
			NewStatus:   string(referral.TransportStatus),
			ChangedByID: actor.UserIDPtr(),
			Notes:       "Submitted while in transit",
		}
		if err := u.statusHistoryRepo.Create(tx, transport); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, actor.UserIDPtr(), entity.AuditActionReferralSubmit, entityReferral, referral.ID.String(), entity.JSON{
		"reference_code": referral.ReferenceCode,
		"status":         referral.Status,
		"source":         referral.Source,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return history, nil
}

func newReferralFromRequest(req *dto.SubmitReferralRequest, actor lifecycle.Actor, birthday time.Time) *entity.Referral {
	referral := &entity.Referral{
		Status:          lifecycle.InitialStatus(),
		TransportStatus: entity.TransportStatusNone,
		Priority:        entity.PriorityRoutine,
		CreatedByID:     actor.UserIDPtr(),
		Source:          entity.ReferralSourceStaff,

		ChiefComplaint:        req.ChiefComplaint,
		PertinentHistory:      req.PertinentHistory,
		PertinentPhysicalExam: req.PertinentPhysicalExam,
		BloodPressure:         req.BloodPressure,
		HeartRate:             req.HeartRate,
		RespiratoryRate:       req.RespiratoryRate,
		Temperature:           req.Temperature.Round(1),
		OxygenSaturation:      req.OxygenSaturation,
		GCSScore:              req.GCSScore,
		OxygenSupport:         req.OxygenSupport,
		AdmissionStatus:       req.AdmissionStatus,
		RTPCRResult:           req.RTPCRResult,
		WorkingImpression:     req.WorkingImpression,
		ManagementDone:        req.ManagementDone,

		PatientCategory: req.PatientCategory,
		HRN:             req.HRN,
		PatientFullName: strings.TrimSpace(req.PatientFullName),
		CurrentAddress:  req.CurrentAddress,
		Birthday:        birthday,
		Age:             req.Age,
		Gender:          req.Gender,

		SpecialtyID:       req.SpecialtyID,
		OtherSpecialty:    req.OtherSpecialty,
		IsUrgent:          req.IsUrgent,
		ReasonForReferral: req.ReasonForReferral,

		HospitalID:           req.HospitalID,
		ReferrerName:         req.ReferrerName,
		ReferrerProfession:   req.ReferrerProfession,
		ReferrerCellphone:    req.ReferrerCellphone,
		ModeOfTransportation: req.ModeOfTransportation,
		ConsentSecured:       req.ConsentSecured,

		TransitInfo: converter.TransitInfoFromRequest(req.TransitInfo),
	}

	if actor.Anonymous {
		referral.Source = entity.ReferralSourceExternal
	}
	if req.Priority != "" {
		referral.Priority = entity.Priority(req.Priority)
	}
	if req.InTransit {
		referral.TransportStatus = entity.TransportStatusInTransit
	}

	return referral
}

func (u *referralUsecase) TransferToTriage(ctx context.Context, key string, req *dto.TransferReferralRequest) (*dto.ReferralResponse, error) {
	return u.transition(ctx, key, transitionRule{
		action:      lifecycle.ActionTransferToTriage,
		notes:       req.Notes,
		auditAction: entity.AuditActionReferralTransfer,
		event:       EventReferralTransferred,
	})
}

// AcceptWithTriageDecision records the triage decision and assigns the
// referral to the accepting officer.
func (u *referralUsecase) AcceptWithTriageDecision(ctx context.Context, key string, req *dto.AcceptReferralRequest) (*dto.ReferralResponse, error) {
	decision := entity.TriageDecision(strings.TrimSpace(req.TriageDecision))
	actor := middleware.GetActorFromContext(ctx)

	return u.transition(ctx, key, transitionRule{
		action:      lifecycle.ActionAccept,
		notes:       req.Notes,
		auditAction: entity.AuditActionReferralAccept,
		event:       EventReferralAccepted,
		validate: func() error {
			return lifecycle.ValidateDecision(decision)
		},
		fields: map[string]interface{}{
			"triage_decision": string(decision),
			"triage_notes":    req.Notes,
			"assigned_to_id":  actor.UserID,
		},
	})
}

func (u *referralUsecase) CompleteReferral(ctx context.Context, key string, req *dto.CompleteReferralRequest) (*dto.ReferralResponse, error) {
	return u.transition(ctx, key, transitionRule{
		action:      lifecycle.ActionComplete,
		notes:       req.Notes,
		auditAction: entity.AuditActionReferralComplete,
		event:       EventReferralCompleted,
		fields: map[string]interface{}{
			"completed_at": time.Now(),
		},
	})
}

func (u *referralUsecase) CancelReferral(ctx context.Context, key string, req *dto.CancelReferralRequest) (*dto.ReferralResponse, error) {
	return u.transition(ctx, key, transitionRule{
		action:      lifecycle.ActionCancel,
		notes:       req.Reason,
		auditAction: entity.AuditActionReferralCancel,
		event:       EventReferralCancelled,
		fields: map[string]interface{}{
			"cancel_reason": req.Reason,
		},
	})
}

type transitionRule struct {
	action      lifecycle.Action
	notes       string
	auditAction string
	event       string
	validate    func() error
	fields      map[string]interface{}
}

// transition applies one triage action.
//
// Checks run in a fixed order: authorization, decision, existence, status.
// The status write is a compare-and-set on the source statuses, so of two
// concurrent callers exactly one moves the referral; the other gets a
// TransitionConflictError and nothing is written on its behalf.
func (u *referralUsecase) transition(ctx context.Context, key string, rule transitionRule) (*dto.ReferralResponse, error) {
	actor := middleware.GetActorFromContext(ctx)

	// Complete also admits the assigned handler, which needs the record.
	if rule.action != lifecycle.ActionComplete {
		if err := lifecycle.Authorize(actor, rule.action, nil); err != nil {
			return nil, err
		}
	} else if actor.Anonymous {
		return nil, lifecycle.ErrUnauthorized
	}

	if rule.validate != nil {
		if err := rule.validate(); err != nil {
			return nil, err
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	referral, err := u.findReferral(tx, key)
	if err != nil {
		return nil, err
	}

	if rule.action == lifecycle.ActionComplete {
		if err := lifecycle.Authorize(actor, rule.action, referral); err != nil {
			return nil, err
		}
	}

	next, err := lifecycle.Next(referral.Status, rule.action)
	if err != nil {
		return nil, &TransitionConflictError{Action: actionVerbs[rule.action], Current: string(referral.Status)}
	}

	rows, err := u.referralRepo.CompareAndSetStatus(tx, referral.ID, lifecycle.SourceStatuses(rule.action), next, rule.fields)
	if err != nil {
		u.log.Warnf("Failed to update referral %s status: %+v", referral.ReferenceCode, err)
		return nil, err
	}
	if rows == 0 {
		return nil, u.conflict(tx, referral, actionVerbs[rule.action])
	}

	history := &entity.ReferralStatusHistory{
		ReferralID:  referral.ID,
		Kind:        entity.HistoryKindTriage,
		OldStatus:   string(referral.Status),
		NewStatus:   string(next),
		ChangedByID: actor.UserIDPtr(),
		Notes:       rule.notes,
	}
	if err := u.statusHistoryRepo.Create(tx, history); err != nil {
		u.log.Warnf("Failed to record history for referral %s: %+v", referral.ReferenceCode, err)
		return nil, err
	}

	newValue := entity.JSON{"status": next}
	for k, v := range rule.fields {
		newValue[k] = v
	}
	if err := u.auditService.LogUpdate(ctx, tx, actor.UserIDPtr(), rule.auditAction, entityReferral, referral.ID.String(),
		entity.JSON{"status": referral.Status}, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Referral %s: %s -> %s by %s (%s)", referral.ReferenceCode, referral.Status, next, actor.UserID, actor.Kind())
	u.publish(ctx, rule.event, referral, history)

	return u.reload(ctx, referral.ID)
}

func (u *referralUsecase) DispatchTransport(ctx context.Context, key string, req *dto.TransportRequest) (*dto.ReferralResponse, error) {
	return u.transport(ctx, key, lifecycle.TransportDispatch, req.Notes, entity.AuditActionReferralDispatch, EventReferralDispatched)
}

func (u *referralUsecase) ArriveTransport(ctx context.Context, key string, req *dto.TransportRequest) (*dto.ReferralResponse, error) {
	return u.transport(ctx, key, lifecycle.TransportArrive, req.Notes, entity.AuditActionReferralArrive, EventReferralArrived)
}

// transport applies one action of the transport state machine. It never
// touches the triage status.
func (u *referralUsecase) transport(ctx context.Context, key string, action lifecycle.TransportAction, notes, auditAction, event string) (*dto.ReferralResponse, error) {
	actor := middleware.GetActorFromContext(ctx)
	if err := lifecycle.AuthorizeTransport(actor); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	referral, err := u.findReferral(tx, key)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.NextTransport(referral, action)
	if err != nil {
		current := string(referral.TransportStatus)
		if action == lifecycle.TransportDispatch && referral.TransitInfo == nil {
			current = "missing transit info"
		}
		return nil, &TransitionConflictError{Action: transportVerbs[action], Current: current}
	}

	from, _ := lifecycle.TransportSource(action)
	rows, err := u.referralRepo.CompareAndSetTransport(tx, referral.ID, from, next)
	if err != nil {
		u.log.Warnf("Failed to update referral %s transport status: %+v", referral.ReferenceCode, err)
		return nil, err
	}
	if rows == 0 {
		return nil, &TransitionConflictError{Action: transportVerbs[action], Current: "already updated"}
	}

	history := &entity.ReferralStatusHistory{
		ReferralID:  referral.ID,
		Kind:        entity.HistoryKindTransport,
		OldStatus:   string(referral.TransportStatus),
		NewStatus:   string(next),
		ChangedByID: actor.UserIDPtr(),
		Notes:       notes,
	}
	if err := u.statusHistoryRepo.Create(tx, history); err != nil {
		u.log.Warnf("Failed to record transport history for referral %s: %+v", referral.ReferenceCode, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.UserIDPtr(), auditAction, entityReferral, referral.ID.String(),
		entity.JSON{"transport_status": referral.TransportStatus}, entity.JSON{"transport_status": next}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Referral %s transport: %s -> %s", referral.ReferenceCode, referral.TransportStatus, next)
	u.publish(ctx, event, referral, history)

	return u.reload(ctx, referral.ID)
}

// AssignToMe makes the caller the referral's handler without changing its status.
func (u *referralUsecase) AssignToMe(ctx context.Context, key string) (*dto.ReferralResponse, error) {
	actor := middleware.GetActorFromContext(ctx)
	if !actor.HasWriteAccess() {
		return nil, lifecycle.ErrUnauthorized
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	referral, err := u.findReferral(tx, key)
	if err != nil {
		return nil, err
	}
	if referral.Status == entity.ReferralStatusCompleted || referral.Status == entity.ReferralStatusCancelled {
		return nil, &TransitionConflictError{Action: "assign", Current: string(referral.Status)}
	}

	if err := u.referralRepo.Assign(tx, referral.ID, actor.UserID); err != nil {
		u.log.Warnf("Failed to assign referral %s: %+v", referral.ReferenceCode, err)
		return nil, err
	}

	var previous interface{}
	if referral.AssignedToID != nil {
		previous = referral.AssignedToID.String()
	}
	if err := u.auditService.LogUpdate(ctx, tx, actor.UserIDPtr(), entity.AuditActionReferralAssign, entityReferral, referral.ID.String(),
		entity.JSON{"assigned_to_id": previous}, entity.JSON{"assigned_to_id": actor.UserID.String()}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.reload(ctx, referral.ID)
}

// UpsertTransitInfo attaches or replaces the ambulance details of a referral.
func (u *referralUsecase) UpsertTransitInfo(ctx context.Context, key string, req *dto.TransitInfoRequest) (*dto.ReferralResponse, error) {
	actor := middleware.GetActorFromContext(ctx)
	if !actor.HasWriteAccess() {
		return nil, lifecycle.ErrUnauthorized
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	referral, err := u.findReferral(tx, key)
	if err != nil {
		return nil, err
	}

	info := converter.TransitInfoFromRequest(req)
	info.ReferralID = referral.ID
	if err := u.transitInfoRepo.Upsert(tx, info); err != nil {
		u.log.Warnf("Failed to save transit info for referral %s: %+v", referral.ReferenceCode, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.UserIDPtr(), entity.AuditActionTransitInfoUpdate, "transit_info", referral.ID.String(),
		converter.TransitInfoToResponse(referral.TransitInfo), converter.TransitInfoToResponse(info)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.reload(ctx, referral.ID)
}

func (u *referralUsecase) GetReferral(ctx context.Context, key string) (*dto.ReferralResponse, error) {
	referral, err := u.findReferral(u.db.WithContext(ctx), key)
	if err != nil {
		return nil, err
	}
	return u.reload(ctx, referral.ID)
}

func (u *referralUsecase) GetReferralHistory(ctx context.Context, key string) (*dto.StatusHistoryListResponse, error) {
	db := u.db.WithContext(ctx)
	referral, err := u.findReferral(db, key)
	if err != nil {
		return nil, err
	}

	histories, err := u.statusHistoryRepo.FindByReferralID(db, referral.ID)
	if err != nil {
		u.log.Warnf("Failed to find history for referral %s: %+v", referral.ReferenceCode, err)
		return nil, err
	}

	return &dto.StatusHistoryListResponse{
		History: converter.StatusHistoriesToResponses(histories),
		Total:   len(histories),
	}, nil
}

func (u *referralUsecase) ListReferrals(ctx context.Context, query *dto.ReferralListQuery) (*dto.ReferralListResponse, error) {
	page, limit := normalizePaging(query.Page, query.Limit, defaultReferralLimit, maxReferralLimit)

	filter := &entity.ReferralFilter{
		Priority:    query.Priority,
		IsUrgent:    query.IsUrgent,
		SpecialtyID: query.SpecialtyID,
		HospitalID:  query.HospitalID,
		StartDate:   query.StartDate,
		EndDate:     query.EndDate,
		Search:      strings.TrimSpace(query.Search),
		Page:        page,
		Limit:       limit,
	}
	for _, s := range query.Status {
		filter.Statuses = append(filter.Statuses, entity.ReferralStatus(s))
	}

	return u.list(ctx, filter)
}

func (u *referralUsecase) GetMyReferrals(ctx context.Context, page, limit int) (*dto.ReferralListResponse, error) {
	actor := middleware.GetActorFromContext(ctx)
	if actor.Anonymous {
		return nil, lifecycle.ErrUnauthorized
	}

	page, limit = normalizePaging(page, limit, defaultReferralLimit, maxReferralLimit)
	userID := actor.UserID
	return u.list(ctx, &entity.ReferralFilter{AssignedToID: &userID, Page: page, Limit: limit})
}

func (u *referralUsecase) list(ctx context.Context, filter *entity.ReferralFilter) (*dto.ReferralListResponse, error) {
	referrals, total, err := u.referralRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find referrals: %+v", err)
		return nil, err
	}

	return &dto.ReferralListResponse{
		Referrals: converter.ReferralsToResponses(referrals),
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}

// GetQueue returns the referrals the caller is expected to act on next.
// The queue is derived on every read from status and role; nothing is stored.
func (u *referralUsecase) GetQueue(ctx context.Context) (*dto.QueueResponse, error) {
	actor := middleware.GetActorFromContext(ctx)
	statuses := lifecycle.QueueStatuses(actor)

	referrals, err := u.referralRepo.FindByStatuses(u.db.WithContext(ctx), statuses)
	if err != nil {
		u.log.Warnf("Failed to find queue for %s: %+v", actor.Kind(), err)
		return nil, err
	}
	referrals = lifecycle.FilterQueue(actor, referrals)

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	return &dto.QueueResponse{
		Role:      actor.Kind().String(),
		Statuses:  names,
		Referrals: converter.ReferralsToResponses(referrals),
		Total:     len(referrals),
	}, nil
}

// findReferral resolves key as a UUID or, failing that, a reference code.
func (u *referralUsecase) findReferral(db *gorm.DB, key string) (*entity.Referral, error) {
	key = strings.TrimSpace(key)

	var (
		referral *entity.Referral
		err      error
	)
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		referral, err = u.referralRepo.FindByID(db, id)
	} else {
		referral, err = u.referralRepo.FindByReferenceCode(db, strings.ToUpper(key))
	}
	if err != nil {
		u.log.Warnf("Failed to find referral %s: %+v", key, err)
		return nil, err
	}
	if referral == nil {
		return nil, lifecycle.ErrNotFound
	}
	return referral, nil
}

// conflict re-reads the status after a lost compare-and-set so the caller
// learns what the referral became.
func (u *referralUsecase) conflict(db *gorm.DB, referral *entity.Referral, verb string) error {
	current := string(referral.Status)
	if fresh, err := u.referralRepo.FindByID(db, referral.ID); err == nil && fresh != nil {
		current = string(fresh.Status)
	}
	return &TransitionConflictError{Action: verb, Current: current}
}

// reload returns the committed state; callers never patch local copies.
func (u *referralUsecase) reload(ctx context.Context, id uuid.UUID) (*dto.ReferralResponse, error) {
	referral, err := u.referralRepo.FindDetail(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to reload referral %s: %+v", id, err)
		return nil, err
	}
	if referral == nil {
		return nil, lifecycle.ErrNotFound
	}
	return converter.ReferralToResponse(referral), nil
}

// publish is best effort; the change is already committed.
func (u *referralUsecase) publish(ctx context.Context, eventType string, referral *entity.Referral, history *entity.ReferralStatusHistory) {
	if err := u.publisher.Publish(ctx, service.NewReferralEvent(eventType, referral, history)); err != nil {
		u.log.Warnf("Failed to publish %s for referral %s: %+v", eventType, referral.ReferenceCode, err)
	}
}
