package entity

import "time"

// HospitalStatus reports whether a referring facility can currently send or receive patients
type HospitalStatus string

const (
	HospitalStatusAvailable   HospitalStatus = "available"
	HospitalStatusBusy        HospitalStatus = "busy"
	HospitalStatusUnavailable HospitalStatus = "unavailable"
)

// Hospital represents a referring facility
type Hospital struct {
	ID            int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"type:varchar(200);not null;index" json:"name"`
	IsInsideMetro bool           `gorm:"not null;index" json:"is_inside_metro"`
	Location      string         `gorm:"type:varchar(100);index" json:"location,omitempty"`
	Address       string         `gorm:"type:text" json:"address,omitempty"`
	ContactNumber string         `gorm:"type:varchar(20)" json:"contact_number,omitempty"`
	Status        HospitalStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Hospital) TableName() string {
	return "hospitals"
}
