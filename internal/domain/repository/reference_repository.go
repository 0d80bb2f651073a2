package repository

import (
	"emergency-referral/internal/domain/entity"

	"gorm.io/gorm"
)

type HospitalFilter struct {
	Search        string
	IsInsideMetro *bool
	Location      string
}

type HospitalRepository interface {
	Create(db *gorm.DB, hospital *entity.Hospital) error
	Update(db *gorm.DB, hospital *entity.Hospital) error
	FindByID(db *gorm.DB, id int) (*entity.Hospital, error)
	FindAll(db *gorm.DB, filter *HospitalFilter) ([]entity.Hospital, error)
}

type SpecialtyRepository interface {
	Create(db *gorm.DB, specialty *entity.Specialty) error
	FindByID(db *gorm.DB, id int) (*entity.Specialty, error)
	FindAll(db *gorm.DB, search string) ([]entity.Specialty, error)
}
