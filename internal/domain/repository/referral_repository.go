package repository

import (
	"time"

	"emergency-referral/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralRepository interface {
	Create(db *gorm.DB, referral *entity.Referral) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Referral, error)
	FindByReferenceCode(db *gorm.DB, code string) (*entity.Referral, error)
	FindDetail(db *gorm.DB, id uuid.UUID) (*entity.Referral, error)
	FindAll(db *gorm.DB, filter *entity.ReferralFilter) ([]entity.Referral, int64, error)
	FindByStatuses(db *gorm.DB, statuses []entity.ReferralStatus) ([]entity.Referral, error)
	FindByPatientName(db *gorm.DB, name string) ([]entity.Referral, error)
	CountCreatedBetween(db *gorm.DB, from, to time.Time) (int64, error)

	// CompareAndSetStatus moves a referral to `to` only if its current status is one
	// of `from`. Returns affected rows: 1 = transitioned, 0 = lost the race or wrong status.
	CompareAndSetStatus(db *gorm.DB, id uuid.UUID, from []entity.ReferralStatus, to entity.ReferralStatus, fields map[string]interface{}) (int64, error)
	CompareAndSetTransport(db *gorm.DB, id uuid.UUID, from, to entity.TransportStatus) (int64, error)
	Assign(db *gorm.DB, id uuid.UUID, userID uuid.UUID) error

	// Reporting aggregations
	Count(db *gorm.DB) (int64, error)
	CountByStatus(db *gorm.DB) ([]entity.GroupCount, error)
	CountByPriority(db *gorm.DB) ([]entity.GroupCount, error)
	CountByTriageDecision(db *gorm.DB) ([]entity.GroupCount, error)
	CountWhere(db *gorm.DB, query string, args ...interface{}) (int64, error)
	TopHospitals(db *gorm.DB, limit int) ([]entity.NamedCount, error)
	TopSpecialties(db *gorm.DB, limit int) ([]entity.NamedCount, error)
	CreatedTimesSince(db *gorm.DB, since time.Time) ([]time.Time, error)
	FindCompleted(db *gorm.DB) ([]entity.Referral, error)
	PatientReferralCounts(db *gorm.DB, limit, offset int) ([]entity.GroupCount, int64, error)
	FindLatestByPatientName(db *gorm.DB, name string) (*entity.Referral, error)
}

type TransitInfoRepository interface {
	Upsert(db *gorm.DB, info *entity.TransitInfo) error
	FindByReferralID(db *gorm.DB, referralID uuid.UUID) (*entity.TransitInfo, error)
}

type StatusHistoryRepository interface {
	Create(db *gorm.DB, history *entity.ReferralStatusHistory) error
	FindByReferralID(db *gorm.DB, referralID uuid.UUID) ([]entity.ReferralStatusHistory, error)
	FindRecent(db *gorm.DB, limit int) ([]entity.ReferralStatusHistory, error)
}
