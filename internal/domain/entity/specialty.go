package entity

// Specialty is a lookup value for the service a referral needs
type Specialty struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Specialty) TableName() string {
	return "specialties"
}
