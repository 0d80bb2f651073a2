package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type TransitInfoRequest struct {
	WatcherName       string     `json:"watcher_name" validate:"required,max=200"`
	WatcherAge        int        `json:"watcher_age" validate:"required,gte=1,lte=150"`
	RelationToPatient string     `json:"relation_to_patient" validate:"required,max=100"`
	ContactNumber     string     `json:"contact_number" validate:"required,max=20"`
	EscortNurse       string     `json:"escort_nurse" validate:"omitempty,max=200"`
	Driver            string     `json:"driver" validate:"omitempty,max=200"`
	ReferringMD       string     `json:"referring_md" validate:"omitempty,max=200"`
	ReferringFacility string     `json:"referring_facility" validate:"omitempty,max=200"`
	LatestVitalSigns  string     `json:"latest_vs" validate:"omitempty"`
	GCS               string     `json:"gcs" validate:"omitempty,max=50"`
	TimeAmbulanceLeft *time.Time `json:"time_ambulance_left" validate:"omitempty"`
}

type SubmitReferralRequest struct {
	// Patient status
	ChiefComplaint        string          `json:"chief_complaint" validate:"required"`
	PertinentHistory      string          `json:"pertinent_history" validate:"omitempty"`
	PertinentPhysicalExam string          `json:"pertinent_physical_exam" validate:"omitempty"`
	BloodPressure         string          `json:"bp" validate:"required,max=20"`
	HeartRate             int             `json:"hr" validate:"required,gte=1,lte=300"`
	RespiratoryRate       int             `json:"rr" validate:"required,gte=1,lte=100"`
	Temperature           decimal.Decimal `json:"temp"`
	OxygenSaturation      int             `json:"o2_sat" validate:"required,gte=0,lte=100"`
	GCSScore              string          `json:"gcs_score" validate:"required,max=50"`
	OxygenSupport         string          `json:"o2_support" validate:"omitempty,max=100"`
	AdmissionStatus       string          `json:"admission_status" validate:"required,oneof=emergency_room ward intensive_care_unit"`
	RTPCRResult           string          `json:"rtpcr_result" validate:"omitempty,oneof=positive negative not_done"`
	WorkingImpression     string          `json:"working_impression" validate:"required"`
	ManagementDone        string          `json:"management_done" validate:"omitempty"`

	// Patient general information
	PatientCategory string `json:"patient_category" validate:"required,oneof=new_patient known_patient"`
	HRN             string `json:"hrn" validate:"omitempty,max=50"`
	PatientFullName string `json:"patient_full_name" validate:"required,max=200"`
	CurrentAddress  string `json:"current_address" validate:"required"`
	Birthday        string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Age             int    `json:"age" validate:"gte=0,lte=150"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`

	// Specialty needed
	SpecialtyID       int    `json:"specialty_id" validate:"required,min=1"`
	OtherSpecialty    string `json:"other_specialty" validate:"omitempty,max=100"`
	IsUrgent          bool   `json:"is_urgent"`
	Priority          string `json:"priority" validate:"omitempty,oneof=routine urgent emergent"`
	ReasonForReferral string `json:"reason_for_referral" validate:"required"`

	// Referring facility
	HospitalID           int    `json:"hospital_id" validate:"required,min=1"`
	ReferrerName         string `json:"referrer_name" validate:"required,max=200"`
	ReferrerProfession   string `json:"referrer_profession" validate:"required,max=100"`
	ReferrerCellphone    string `json:"referrer_cellphone" validate:"required,max=20"`
	ModeOfTransportation string `json:"mode_of_transportation" validate:"required,max=100"`
	ConsentSecured       bool   `json:"consent_secured"`

	// Transit
	InTransit   bool                `json:"in_transit"`
	TransitInfo *TransitInfoRequest `json:"transit_info" validate:"omitempty"`
}

type TransferReferralRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// AcceptReferralRequest leaves the decision unvalidated here; the lifecycle
// engine reports a missing or unknown decision after checking authorization.
type AcceptReferralRequest struct {
	TriageDecision string `json:"triage_decision"`
	Notes          string `json:"notes" validate:"omitempty,max=2000"`
}

type CompleteReferralRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type CancelReferralRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type TransportRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type ReferralListQuery struct {
	Status      []string
	Priority    string
	IsUrgent    *bool
	SpecialtyID int
	HospitalID  int
	StartDate   string
	EndDate     string
	Search      string
	Page        int
	Limit       int
}

// Response DTOs

type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
}

type TransitInfoResponse struct {
	WatcherName       string     `json:"watcher_name"`
	WatcherAge        int        `json:"watcher_age"`
	RelationToPatient string     `json:"relation_to_patient"`
	ContactNumber     string     `json:"contact_number"`
	EscortNurse       string     `json:"escort_nurse,omitempty"`
	Driver            string     `json:"driver,omitempty"`
	ReferringMD       string     `json:"referring_md,omitempty"`
	ReferringFacility string     `json:"referring_facility,omitempty"`
	LatestVitalSigns  string     `json:"latest_vs,omitempty"`
	GCS               string     `json:"gcs,omitempty"`
	TimeAmbulanceLeft *time.Time `json:"time_ambulance_left,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type StatusHistoryResponse struct {
	ID        int64        `json:"id"`
	Kind      string       `json:"kind"`
	OldStatus string       `json:"old_status"`
	NewStatus string       `json:"new_status"`
	ChangedBy *UserSummary `json:"changed_by,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	ChangedAt time.Time    `json:"changed_at"`
}

type ReferralResponse struct {
	ID              uuid.UUID `json:"id"`
	ReferenceCode   string    `json:"reference_code"`
	Status          string    `json:"status"`
	TransportStatus string    `json:"transport_status"`
	Priority        string    `json:"priority"`
	TriageDecision  string    `json:"triage_decision,omitempty"`
	TriageNotes     string    `json:"triage_notes,omitempty"`
	CancelReason    string    `json:"cancel_reason,omitempty"`
	Source          string    `json:"source"`

	ChiefComplaint        string          `json:"chief_complaint"`
	PertinentHistory      string          `json:"pertinent_history,omitempty"`
	PertinentPhysicalExam string          `json:"pertinent_physical_exam,omitempty"`
	BloodPressure         string          `json:"bp"`
	HeartRate             int             `json:"hr"`
	RespiratoryRate       int             `json:"rr"`
	Temperature           decimal.Decimal `json:"temp"`
	OxygenSaturation      int             `json:"o2_sat"`
	GCSScore              string          `json:"gcs_score"`
	OxygenSupport         string          `json:"o2_support,omitempty"`
	AdmissionStatus       string          `json:"admission_status"`
	RTPCRResult           string          `json:"rtpcr_result,omitempty"`
	WorkingImpression     string          `json:"working_impression"`
	ManagementDone        string          `json:"management_done,omitempty"`

	PatientCategory string `json:"patient_category"`
	HRN             string `json:"hrn,omitempty"`
	PatientFullName string `json:"patient_full_name"`
	CurrentAddress  string `json:"current_address"`
	Birthday        string `json:"birthday"`
	Age             int    `json:"age"`
	Gender          string `json:"gender"`

	Specialty         *NamedRef `json:"specialty,omitempty"`
	SpecialtyID       int       `json:"specialty_id"`
	OtherSpecialty    string    `json:"other_specialty,omitempty"`
	IsUrgent          bool      `json:"is_urgent"`
	ReasonForReferral string    `json:"reason_for_referral"`

	Hospital             *NamedRef `json:"hospital,omitempty"`
	HospitalID           int       `json:"hospital_id"`
	ReferrerName         string    `json:"referrer_name"`
	ReferrerProfession   string    `json:"referrer_profession"`
	ReferrerCellphone    string    `json:"referrer_cellphone"`
	ModeOfTransportation string    `json:"mode_of_transportation"`
	ConsentSecured       bool      `json:"consent_secured"`

	AssignedTo    *UserSummary            `json:"assigned_to,omitempty"`
	CreatedBy     *UserSummary            `json:"created_by,omitempty"`
	TransitInfo   *TransitInfoResponse    `json:"transit_info,omitempty"`
	StatusHistory []StatusHistoryResponse `json:"status_history,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ReferralListResponse struct {
	Referrals []ReferralResponse `json:"referrals"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

type QueueResponse struct {
	Role      string             `json:"role"`
	Statuses  []string           `json:"statuses"`
	Referrals []ReferralResponse `json:"referrals"`
	Total     int                `json:"total"`
}

type StatusHistoryListResponse struct {
	History []StatusHistoryResponse `json:"history"`
	Total   int                     `json:"total"`
}
