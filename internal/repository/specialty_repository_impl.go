package repository

import (
	"errors"
	"strings"

	"emergency-referral/internal/domain/entity"
	domainRepo "emergency-referral/internal/domain/repository"

	"gorm.io/gorm"
)

type specialtyRepository struct{}

func NewSpecialtyRepository() domainRepo.SpecialtyRepository {
	return &specialtyRepository{}
}

func (r *specialtyRepository) Create(db *gorm.DB, specialty *entity.Specialty) error {
	return db.Create(specialty).Error
}

func (r *specialtyRepository) FindByID(db *gorm.DB, id int) (*entity.Specialty, error) {
	var specialty entity.Specialty
	err := db.Where("id = ?", id).First(&specialty).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &specialty, nil
}

func (r *specialtyRepository) FindAll(db *gorm.DB, search string) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	query := db.Model(&entity.Specialty{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := query.Order("name ASC").Find(&specialties).Error; err != nil {
		return nil, err
	}
	return specialties, nil
}
