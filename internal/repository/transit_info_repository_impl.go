package repository

import (
	"errors"

	"emergency-referral/internal/domain/entity"
	domainRepo "emergency-referral/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transitInfoRepository struct{}

func NewTransitInfoRepository() domainRepo.TransitInfoRepository {
	return &transitInfoRepository{}
}

// Upsert keeps a single transit record per referral.
func (r *transitInfoRepository) Upsert(db *gorm.DB, info *entity.TransitInfo) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "referral_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"watcher_name", "watcher_age", "relation_to_patient", "contact_number",
			"escort_nurse", "driver", "referring_md", "referring_facility",
			"latest_vs", "gcs", "time_ambulance_left", "updated_at",
		}),
	}).Create(info).Error
}

func (r *transitInfoRepository) FindByReferralID(db *gorm.DB, referralID uuid.UUID) (*entity.TransitInfo, error) {
	var info entity.TransitInfo
	err := db.Where("referral_id = ?", referralID).First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}
