package dto

import (
	"time"

	"github.com/google/uuid"
)

type DashboardResponse struct {
	TotalReferrals     int64 `json:"total_referrals"`
	PendingReferrals   int64 `json:"pending_referrals"`
	WaitingReferrals   int64 `json:"waiting_referrals"`
	InTransitReferrals int64 `json:"in_transit_referrals"`
	EmergentPriority   int64 `json:"emergent_priority_referrals"`
	UrgentReferrals    int64 `json:"urgent_referrals"`
	EmergentTriage     int64 `json:"emergent_referrals"`
	UrgentTriage       int64 `json:"urgent_triage_referrals"`
	ScheduledOPD       int64 `json:"scheduled_opd_referrals"`
	RecentReferrals    int64 `json:"recent_referrals"`
}

type AnalyticsSummary struct {
	TotalReferrals         int64   `json:"total_referrals"`
	SuccessfulReferrals    int64   `json:"successful_referrals"`
	PendingReferrals       int64   `json:"pending_referrals"`
	CancelledReferrals     int64   `json:"cancelled_referrals"`
	SuccessRate            float64 `json:"success_rate"`
	CancellationRate       float64 `json:"cancellation_rate"`
	RecentReferrals        int64   `json:"recent_referrals"`
	AvgProcessingTimeHours float64 `json:"avg_processing_time_hours"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type RankedCount struct {
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage,omitempty"`
}

type DistributionEntry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type AnalyticsResponse struct {
	Summary               AnalyticsSummary    `json:"summary"`
	MonthlyTrends         []MonthlyCount      `json:"monthly_trends"`
	TopHospitals          []RankedCount       `json:"top_hospitals"`
	StatusDistribution    []DistributionEntry `json:"status_distribution"`
	PriorityDistribution  []DistributionEntry `json:"priority_distribution"`
	SpecialtyDistribution []RankedCount       `json:"specialty_distribution"`
}

type ActivityEntry struct {
	ReferralID      uuid.UUID    `json:"referral_id"`
	ReferenceCode   string       `json:"reference_code,omitempty"`
	PatientFullName string       `json:"patient_full_name,omitempty"`
	Kind            string       `json:"kind"`
	OldStatus       string       `json:"old_status"`
	NewStatus       string       `json:"new_status"`
	ChangedBy       *UserSummary `json:"changed_by,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	ChangedAt       time.Time    `json:"changed_at"`
}

type ActivityResponse struct {
	Activity []ActivityEntry `json:"activity"`
	Total    int             `json:"total"`
}

type PatientResponse struct {
	PatientFullName    string    `json:"patient_full_name"`
	Age                int       `json:"age"`
	Gender             string    `json:"gender"`
	HRN                string    `json:"hrn,omitempty"`
	PatientCategory    string    `json:"patient_category"`
	CurrentAddress     string    `json:"current_address"`
	Birthday           string    `json:"birthday"`
	TotalReferrals     int64     `json:"total_referrals"`
	LatestReferralDate time.Time `json:"latest_referral_date"`
	LatestReferralCode string    `json:"latest_reference_code"`
	LatestStatus       string    `json:"latest_status"`
	LatestHospital     string    `json:"latest_hospital,omitempty"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}
