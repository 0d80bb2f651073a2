package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a staff account of the receiving institution
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID        int       `gorm:"not null;index" json:"role_id"`
	Username      string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"type:text;not null" json:"-"`
	FullName      string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Department    string    `gorm:"type:varchar(100)" json:"department,omitempty"`
	ContactNumber string    `gorm:"type:varchar(20)" json:"contact_number,omitempty"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
