package entity

import (
	"time"

	"github.com/google/uuid"
)

// History kinds separate the two independent state machines
const (
	HistoryKindTriage    = "triage"
	HistoryKindTransport = "transport"
)

// ReferralStatusHistory records a single status change of a referral
type ReferralStatusHistory struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferralID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"referral_id"`
	Kind        string     `gorm:"type:varchar(20);not null;default:'triage'" json:"kind"`
	OldStatus   string     `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus   string     `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedByID *uuid.UUID `gorm:"type:uuid;index" json:"changed_by_id,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	ChangedAt   time.Time  `gorm:"autoCreateTime;index" json:"changed_at"`

	// Relationships
	Referral  *Referral `gorm:"foreignKey:ReferralID" json:"referral,omitempty"`
	ChangedBy *User     `gorm:"foreignKey:ChangedByID" json:"changed_by,omitempty"`
}

func (ReferralStatusHistory) TableName() string {
	return "referral_status_histories"
}
