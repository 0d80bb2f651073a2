package database

import (
	"fmt"

	"emergency-referral/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedHospitals = []entity.Hospital{
	{Name: "Southern Philippines Medical Center", IsInsideMetro: true, Location: "Bajada", Status: entity.HospitalStatusAvailable},
	{Name: "Davao Doctors Hospital", IsInsideMetro: true, Location: "Poblacion", Status: entity.HospitalStatusAvailable},
	{Name: "Brokenshire Memorial Hospital", IsInsideMetro: true, Location: "Madapo", Status: entity.HospitalStatusAvailable},
	{Name: "Davao Regional Medical Center", IsInsideMetro: false, Location: "Tagum City", Status: entity.HospitalStatusAvailable},
	{Name: "Digos Provincial Hospital", IsInsideMetro: false, Location: "Digos City", Status: entity.HospitalStatusAvailable},
	{Name: "Mati Doctors Hospital", IsInsideMetro: false, Location: "Mati City", Status: entity.HospitalStatusAvailable},
}

var seedSpecialties = []entity.Specialty{
	{Name: "Internal Medicine"},
	{Name: "Surgery"},
	{Name: "Pediatrics"},
	{Name: "Obstetrics and Gynecology"},
	{Name: "Orthopedics"},
	{Name: "Neurology"},
	{Name: "Cardiology"},
	{Name: "Ophthalmology"},
	{Name: "ENT"},
	{Name: "Others"},
}

type seedUser struct {
	username string
	fullName string
	roleID   int
}

var seedUsers = []seedUser{
	{username: "edcc", fullName: "EDCC Personnel", roleID: entity.RoleIDEDCCPersonnel},
	{username: "triage", fullName: "Call Triage Officer", roleID: entity.RoleIDCallTriage},
	{username: "admin", fullName: "System Administrator", roleID: entity.RoleIDAdmin},
}

// Seed creates the default roles, reference data and one user per role.
// Existing rows are left untouched so the command can be re-run.
func Seed(db *gorm.DB, log *logrus.Logger, password string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		roles := make([]entity.Role, len(entity.DefaultRoles))
		copy(roles, entity.DefaultRoles)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}

		for _, h := range seedHospitals {
			hospital := h
			if err := tx.Where("name = ?", hospital.Name).FirstOrCreate(&hospital).Error; err != nil {
				return fmt.Errorf("seed hospital %s: %w", hospital.Name, err)
			}
		}

		for _, s := range seedSpecialties {
			specialty := s
			if err := tx.Where("name = ?", specialty.Name).FirstOrCreate(&specialty).Error; err != nil {
				return fmt.Errorf("seed specialty %s: %w", specialty.Name, err)
			}
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		for _, u := range seedUsers {
			user := entity.User{
				RoleID:   u.roleID,
				Username: u.username,
				Email:    u.username + "@referral.local",
				Password: string(hashed),
				FullName: u.fullName,
				IsActive: true,
			}
			if err := tx.Omit("Role").Where("username = ?", user.Username).FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", user.Username, err)
			}
		}

		log.Infof("Seeded %d roles, %d hospitals, %d specialties, %d users",
			len(roles), len(seedHospitals), len(seedSpecialties), len(seedUsers))
		return nil
	})
}
