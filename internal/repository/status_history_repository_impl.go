package repository

import (
	"emergency-referral/internal/domain/entity"
	domainRepo "emergency-referral/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type statusHistoryRepository struct{}

func NewStatusHistoryRepository() domainRepo.StatusHistoryRepository {
	return &statusHistoryRepository{}
}

func (r *statusHistoryRepository) Create(db *gorm.DB, history *entity.ReferralStatusHistory) error {
	return db.Omit("Referral", "ChangedBy").Create(history).Error
}

func (r *statusHistoryRepository) FindByReferralID(db *gorm.DB, referralID uuid.UUID) ([]entity.ReferralStatusHistory, error) {
	var histories []entity.ReferralStatusHistory
	err := db.Preload("ChangedBy").
		Where("referral_id = ?", referralID).
		Order("changed_at ASC, id ASC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *statusHistoryRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ReferralStatusHistory, error) {
	var histories []entity.ReferralStatusHistory
	err := db.Preload("ChangedBy").
		Preload("Referral").
		Order("changed_at DESC, id DESC").
		Limit(limit).
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
