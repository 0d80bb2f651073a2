package entity

// Role represents a staff role together with the referral capabilities it grants
type Role struct {
	ID                   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName             string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description          string `gorm:"type:text" json:"description,omitempty"`
	CanTransferReferrals bool   `gorm:"not null;default:false" json:"can_transfer_referrals"`
	CanTriageReferrals   bool   `gorm:"not null;default:false" json:"can_triage_referrals"`
	IsAdmin              bool   `gorm:"not null;default:false" json:"is_admin"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDEDCCPersonnel = 1
	RoleIDCallTriage    = 2
	RoleIDAdmin         = 3
)

// RoleNames constants
const (
	RoleEDCCPersonnel = "edcc_personnel"
	RoleCallTriage    = "call_triage"
	RoleAdmin         = "admin"
)

// DefaultRoles are the roles every deployment starts with
var DefaultRoles = []Role{
	{ID: RoleIDEDCCPersonnel, RoleName: RoleEDCCPersonnel, Description: "EDCC Personnel", CanTransferReferrals: true},
	{ID: RoleIDCallTriage, RoleName: RoleCallTriage, Description: "EDMAR/EDHO (Call Triage)", CanTriageReferrals: true},
	{ID: RoleIDAdmin, RoleName: RoleAdmin, Description: "Administrator", IsAdmin: true},
}
