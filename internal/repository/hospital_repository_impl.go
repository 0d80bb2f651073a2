package repository

import (
	"errors"
	"strings"

	"emergency-referral/internal/domain/entity"
	domainRepo "emergency-referral/internal/domain/repository"

	"gorm.io/gorm"
)

type hospitalRepository struct{}

func NewHospitalRepository() domainRepo.HospitalRepository {
	return &hospitalRepository{}
}

func (r *hospitalRepository) Create(db *gorm.DB, hospital *entity.Hospital) error {
	return db.Create(hospital).Error
}

func (r *hospitalRepository) Update(db *gorm.DB, hospital *entity.Hospital) error {
	return db.Save(hospital).Error
}

func (r *hospitalRepository) FindByID(db *gorm.DB, id int) (*entity.Hospital, error) {
	var hospital entity.Hospital
	err := db.Where("id = ?", id).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindAll(db *gorm.DB, filter *domainRepo.HospitalFilter) ([]entity.Hospital, error) {
	var hospitals []entity.Hospital
	query := db.Model(&entity.Hospital{})

	if filter != nil {
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
		}
		if filter.IsInsideMetro != nil {
			query = query.Where("is_inside_metro = ?", *filter.IsInsideMetro)
		}
		if filter.Location != "" {
			query = query.Where("location = ?", filter.Location)
		}
	}

	if err := query.Order("name ASC").Find(&hospitals).Error; err != nil {
		return nil, err
	}
	return hospitals, nil
}
