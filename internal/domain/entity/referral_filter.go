package entity

import "github.com/google/uuid"

// ReferralFilter is a domain-level filter for querying referrals.
// Used by repository layer to avoid coupling with delivery DTOs.
type ReferralFilter struct {
	Statuses     []ReferralStatus
	Priority     string
	IsUrgent     *bool
	SpecialtyID  int
	HospitalID   int
	AssignedToID *uuid.UUID
	StartDate    string // Format: YYYY-MM-DD
	EndDate      string // Format: YYYY-MM-DD
	Search       string // reference code, patient name, HRN, chief complaint, referrer
	Page         int
	Limit        int
}

// Offset returns the row offset for the requested page
func (f *ReferralFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
