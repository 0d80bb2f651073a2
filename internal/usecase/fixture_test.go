package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"emergency-referral/internal/converter"
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/lifecycle"
	"emergency-referral/internal/repository"
	"emergency-referral/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes transactions.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Hospital{},
		&entity.Specialty{},
		&entity.Referral{},
		&entity.TransitInfo{},
		&entity.ReferralStatusHistory{},
		&entity.AuditLog{},
	))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeSequencer struct {
	mu     sync.Mutex
	queued []int64
	last   int64
}

func (f *fakeSequencer) Next(ctx context.Context, day time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queued) > 0 {
		seq := f.queued[0]
		f.queued = f.queued[1:]
		return seq, nil
	}
	f.last++
	return f.last, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []service.ReferralEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event service.ReferralEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]bool{}}
}

func (s *fakeTokenStore) key(kind string, userID uuid.UUID, tokenID string) string {
	return kind + ":" + userID.String() + ":" + tokenID
}

func (s *fakeTokenStore) Store(ctx context.Context, kind string, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(kind, userID, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) Exists(ctx context.Context, kind string, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[s.key(kind, userID, tokenID)], nil
}

func (s *fakeTokenStore) Revoke(ctx context.Context, kind string, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key(kind, userID, tokenID))
	return nil
}

// referralFixture wires the referral use case against SQLite with one user per role.
type referralFixture struct {
	db        *gorm.DB
	usecase   ReferralUsecase
	sequencer *fakeSequencer
	publisher *fakePublisher
	hospital  entity.Hospital
	specialty entity.Specialty

	edcc   entity.User
	triage entity.User
	admin  entity.User
}

func newReferralFixture(t *testing.T) *referralFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()

	f := &referralFixture{
		db:        db,
		sequencer: &fakeSequencer{},
		publisher: &fakePublisher{},
		hospital:  entity.Hospital{Name: "Davao Doctors Hospital", IsInsideMetro: true, Status: entity.HospitalStatusAvailable},
		specialty: entity.Specialty{Name: "Cardiology"},
	}

	roles := make([]entity.Role, len(entity.DefaultRoles))
	copy(roles, entity.DefaultRoles)
	require.NoError(t, db.Create(&roles).Error)
	require.NoError(t, db.Create(&f.hospital).Error)
	require.NoError(t, db.Create(&f.specialty).Error)

	f.edcc = createUser(t, db, "edcc", entity.RoleIDEDCCPersonnel)
	f.triage = createUser(t, db, "triage", entity.RoleIDCallTriage)
	f.admin = createUser(t, db, "admin", entity.RoleIDAdmin)

	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	f.usecase = NewReferralUsecase(
		db,
		log,
		repository.NewReferralRepository(),
		repository.NewTransitInfoRepository(),
		repository.NewStatusHistoryRepository(),
		repository.NewHospitalRepository(),
		repository.NewSpecialtyRepository(),
		auditService,
		f.sequencer,
		f.publisher,
	)
	return f
}

func createUser(t *testing.T, db *gorm.DB, username string, roleID int) entity.User {
	t.Helper()
	user := entity.User{
		RoleID:   roleID,
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		FullName: username,
		IsActive: true,
	}
	require.NoError(t, db.Omit("Role").Create(&user).Error)
	require.NoError(t, db.Preload("Role").First(&user, "id = ?", user.ID).Error)
	return user
}

func actorFor(user entity.User) lifecycle.Actor {
	return lifecycle.Actor{UserID: user.ID, Permissions: converter.PermissionsFromRole(&user.Role)}
}

func ctxFor(user entity.User) context.Context {
	return middleware.WithActor(context.Background(), actorFor(user))
}

func anonymousCtx() context.Context {
	return middleware.WithActor(context.Background(), lifecycle.AnonymousActor())
}

func (f *referralFixture) submitRequest() *dto.SubmitReferralRequest {
	return &dto.SubmitReferralRequest{
		ChiefComplaint:       "Chest pain radiating to the left arm",
		BloodPressure:        "150/90",
		HeartRate:            112,
		RespiratoryRate:      24,
		Temperature:          decimal.RequireFromString("37.8"),
		OxygenSaturation:     93,
		GCSScore:             "15",
		AdmissionStatus:      entity.AdmissionEmergencyRoom,
		WorkingImpression:    "Acute coronary syndrome",
		PatientCategory:      entity.PatientCategoryNew,
		PatientFullName:      "Juan Dela Cruz",
		CurrentAddress:       "Matina, Davao City",
		Birthday:             "1968-04-12",
		Age:                  56,
		Gender:               entity.GenderMale,
		SpecialtyID:          f.specialty.ID,
		ReasonForReferral:    "Needs cardiac catheterization",
		HospitalID:           f.hospital.ID,
		ReferrerName:         "Dr. Santos",
		ReferrerProfession:   "Physician",
		ReferrerCellphone:    "09171234567",
		ModeOfTransportation: "Ambulance",
		ConsentSecured:       true,
	}
}

func transitRequest() *dto.TransitInfoRequest {
	return &dto.TransitInfoRequest{
		WatcherName:       "Maria Dela Cruz",
		WatcherAge:        50,
		RelationToPatient: "Wife",
		ContactNumber:     "09181234567",
		Driver:            "Pedro",
	}
}

// submitted creates a referral and returns it in the given status.
func (f *referralFixture) submitted(t *testing.T, status entity.ReferralStatus) *dto.ReferralResponse {
	t.Helper()

	ref, err := f.usecase.SubmitReferral(ctxFor(f.edcc), f.submitRequest())
	require.NoError(t, err)

	steps := map[entity.ReferralStatus]func(){
		entity.ReferralStatusWaiting: func() {
			ref, err = f.usecase.TransferToTriage(ctxFor(f.edcc), ref.ID.String(), &dto.TransferReferralRequest{})
		},
		entity.ReferralStatusAccepted: func() {
			ref, err = f.usecase.AcceptWithTriageDecision(ctxFor(f.triage), ref.ID.String(), &dto.AcceptReferralRequest{TriageDecision: "urgent"})
		},
		entity.ReferralStatusCompleted: func() {
			ref, err = f.usecase.CompleteReferral(ctxFor(f.triage), ref.ID.String(), &dto.CompleteReferralRequest{})
		},
	}
	path := []entity.ReferralStatus{entity.ReferralStatusWaiting, entity.ReferralStatusAccepted, entity.ReferralStatusCompleted}

	if status == entity.ReferralStatusCancelled {
		ref, err = f.usecase.CancelReferral(ctxFor(f.edcc), ref.ID.String(), &dto.CancelReferralRequest{Reason: "Patient expired"})
		require.NoError(t, err)
		return ref
	}

	for _, s := range path {
		if ref.Status == string(status) {
			break
		}
		steps[s]()
		require.NoError(t, err)
	}
	require.Equal(t, string(status), ref.Status)
	return ref
}

func (f *referralFixture) storedStatus(t *testing.T, id uuid.UUID) entity.ReferralStatus {
	t.Helper()
	var ref entity.Referral
	require.NoError(t, f.db.First(&ref, "id = ?", id).Error)
	return ref.Status
}

func (f *referralFixture) historyCount(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&entity.ReferralStatusHistory{}).Where("referral_id = ?", id).Count(&n).Error)
	return n
}

var errBrokerDown = errors.New("broker down")
