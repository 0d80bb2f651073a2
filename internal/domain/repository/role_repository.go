package repository

import (
	"context"

	"emergency-referral/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error)
}
