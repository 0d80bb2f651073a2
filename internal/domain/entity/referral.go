package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralStatus is the triage status of a referral
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusWaiting   ReferralStatus = "waiting"
	ReferralStatusAccepted  ReferralStatus = "accepted"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusCancelled ReferralStatus = "cancelled"
)

// ReferralStatuses lists every triage status in lifecycle order
var ReferralStatuses = []ReferralStatus{
	ReferralStatusPending,
	ReferralStatusWaiting,
	ReferralStatusAccepted,
	ReferralStatusCompleted,
	ReferralStatusCancelled,
}

// TransportStatus tracks physical patient movement, independent of triage
type TransportStatus string

const (
	TransportStatusNone      TransportStatus = "none"
	TransportStatusInTransit TransportStatus = "in_transit"
	TransportStatusArrived   TransportStatus = "arrived"
)

// TriageDecision is the urgency class set by triage staff on acceptance
type TriageDecision string

const (
	TriageDecisionEmergent    TriageDecision = "emergent"
	TriageDecisionUrgent      TriageDecision = "urgent"
	TriageDecisionScheduleOPD TriageDecision = "schedule_opd"
)

// Valid reports whether d is one of the accepted triage decisions
func (d TriageDecision) Valid() bool {
	switch d {
	case TriageDecisionEmergent, TriageDecisionUrgent, TriageDecisionScheduleOPD:
		return true
	}
	return false
}

type Priority string

const (
	PriorityRoutine  Priority = "routine"
	PriorityUrgent   Priority = "urgent"
	PriorityEmergent Priority = "emergent"
)

const (
	PatientCategoryNew   = "new_patient"
	PatientCategoryKnown = "known_patient"
)

const (
	AdmissionEmergencyRoom = "emergency_room"
	AdmissionWard          = "ward"
	AdmissionICU           = "intensive_care_unit"
)

const (
	RTPCRPositive = "positive"
	RTPCRNegative = "negative"
	RTPCRNotDone  = "not_done"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Referral sources
const (
	ReferralSourceExternal = "external"
	ReferralSourceStaff    = "staff"
)

// Referral is a request to transfer a patient's care to a specialty service
type Referral struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReferenceCode string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"reference_code"`

	// Workflow
	Status          ReferralStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransportStatus TransportStatus `gorm:"type:varchar(20);not null;default:'none';index" json:"transport_status"`
	Priority        Priority        `gorm:"type:varchar(20);not null;default:'routine';index" json:"priority"`
	TriageDecision  *TriageDecision `gorm:"type:varchar(20)" json:"triage_decision,omitempty"`
	TriageNotes     string          `gorm:"type:text" json:"triage_notes,omitempty"`
	CancelReason    string          `gorm:"type:text" json:"cancel_reason,omitempty"`
	AssignedToID    *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	CreatedByID     *uuid.UUID      `gorm:"type:uuid;index" json:"created_by_id,omitempty"`
	Source          string          `gorm:"type:varchar(20);not null" json:"source"`

	// Patient status
	ChiefComplaint        string          `gorm:"type:text;not null" json:"chief_complaint"`
	PertinentHistory      string          `gorm:"type:text" json:"pertinent_history"`
	PertinentPhysicalExam string          `gorm:"type:text" json:"pertinent_physical_exam"`
	BloodPressure         string          `gorm:"column:bp;type:varchar(20)" json:"bp"`
	HeartRate             int             `gorm:"column:hr" json:"hr"`
	RespiratoryRate       int             `gorm:"column:rr" json:"rr"`
	Temperature           decimal.Decimal `gorm:"column:temp;type:decimal(4,1)" json:"temp"`
	OxygenSaturation      int             `gorm:"column:o2_sat" json:"o2_sat"`
	GCSScore              string          `gorm:"column:gcs_score;type:varchar(50)" json:"gcs_score"`
	OxygenSupport         string          `gorm:"column:o2_support;type:varchar(100)" json:"o2_support"`
	AdmissionStatus       string          `gorm:"type:varchar(30)" json:"admission_status"`
	RTPCRResult           string          `gorm:"column:rtpcr_result;type:varchar(20)" json:"rtpcr_result"`
	WorkingImpression     string          `gorm:"type:text" json:"working_impression"`
	ManagementDone        string          `gorm:"type:text" json:"management_done"`

	// Patient general information
	PatientCategory string    `gorm:"type:varchar(20)" json:"patient_category"`
	HRN             string    `gorm:"column:hrn;type:varchar(50);index" json:"hrn,omitempty"`
	PatientFullName string    `gorm:"type:varchar(200);not null;index" json:"patient_full_name"`
	CurrentAddress  string    `gorm:"type:text" json:"current_address"`
	Birthday        time.Time `gorm:"type:date" json:"birthday"`
	Age             int       `json:"age"`
	Gender          string    `gorm:"type:varchar(10)" json:"gender"`

	// Specialty needed
	SpecialtyID       int    `gorm:"not null;index" json:"specialty_id"`
	OtherSpecialty    string `gorm:"type:varchar(100)" json:"other_specialty,omitempty"`
	IsUrgent          bool   `gorm:"not null;default:false;index" json:"is_urgent"`
	ReasonForReferral string `gorm:"type:text" json:"reason_for_referral"`

	// Referring facility
	HospitalID           int    `gorm:"not null;index" json:"hospital_id"`
	ReferrerName         string `gorm:"type:varchar(200)" json:"referrer_name"`
	ReferrerProfession   string `gorm:"type:varchar(100)" json:"referrer_profession"`
	ReferrerCellphone    string `gorm:"type:varchar(20)" json:"referrer_cellphone"`
	ModeOfTransportation string `gorm:"type:varchar(100)" json:"mode_of_transportation"`
	ConsentSecured       bool   `gorm:"not null;default:false" json:"consent_secured"`

	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Specialty     Specialty               `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Hospital      Hospital                `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	AssignedTo    *User                   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy     *User                   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	TransitInfo   *TransitInfo            `gorm:"foreignKey:ReferralID" json:"transit_info,omitempty"`
	StatusHistory []ReferralStatusHistory `gorm:"foreignKey:ReferralID" json:"status_history,omitempty"`
}

func (Referral) TableName() string {
	return "referrals"
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsPending checks if referral still awaits transfer to triage
func (r *Referral) IsPending() bool {
	return r.Status == ReferralStatusPending
}

// IsWaiting checks if referral awaits a triage decision
func (r *Referral) IsWaiting() bool {
	return r.Status == ReferralStatusWaiting
}

// IsAssignedTo checks whether userID is the referral's handler
func (r *Referral) IsAssignedTo(userID uuid.UUID) bool {
	return r.AssignedToID != nil && *r.AssignedToID == userID
}

// TransitInfo holds ambulance transport details for a referral
type TransitInfo struct {
	ID                int        `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferralID        uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"referral_id"`
	WatcherName       string     `gorm:"type:varchar(200);not null" json:"watcher_name"`
	WatcherAge        int        `gorm:"not null" json:"watcher_age"`
	RelationToPatient string     `gorm:"type:varchar(100);not null" json:"relation_to_patient"`
	ContactNumber     string     `gorm:"type:varchar(20);not null" json:"contact_number"`
	EscortNurse       string     `gorm:"type:varchar(200)" json:"escort_nurse,omitempty"`
	Driver            string     `gorm:"type:varchar(200)" json:"driver,omitempty"`
	ReferringMD       string     `gorm:"column:referring_md;type:varchar(200)" json:"referring_md,omitempty"`
	ReferringFacility string     `gorm:"type:varchar(200)" json:"referring_facility,omitempty"`
	LatestVitalSigns  string     `gorm:"column:latest_vs;type:text" json:"latest_vs,omitempty"`
	GCS               string     `gorm:"column:gcs;type:varchar(50)" json:"gcs,omitempty"`
	TimeAmbulanceLeft *time.Time `json:"time_ambulance_left,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TransitInfo) TableName() string {
	return "transit_infos"
}
