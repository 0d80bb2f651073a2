package converter

import (
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ReferralToResponse converts a Referral entity to ReferralResponse DTO.
// Relations are included only when they were preloaded.
func ReferralToResponse(referral *entity.Referral) *dto.ReferralResponse {
	if referral == nil {
		return nil
	}

	response := &dto.ReferralResponse{
		ID:              referral.ID,
		ReferenceCode:   referral.ReferenceCode,
		Status:          string(referral.Status),
		TransportStatus: string(referral.TransportStatus),
		Priority:        string(referral.Priority),
		TriageNotes:     referral.TriageNotes,
		CancelReason:    referral.CancelReason,
		Source:          referral.Source,

		ChiefComplaint:        referral.ChiefComplaint,
		PertinentHistory:      referral.PertinentHistory,
		PertinentPhysicalExam: referral.PertinentPhysicalExam,
		BloodPressure:         referral.BloodPressure,
		HeartRate:             referral.HeartRate,
		RespiratoryRate:       referral.RespiratoryRate,
		Temperature:           referral.Temperature,
		OxygenSaturation:      referral.OxygenSaturation,
		GCSScore:              referral.GCSScore,
		OxygenSupport:         referral.OxygenSupport,
		AdmissionStatus:       referral.AdmissionStatus,
		RTPCRResult:           referral.RTPCRResult,
		WorkingImpression:     referral.WorkingImpression,
		ManagementDone:        referral.ManagementDone,

		PatientCategory: referral.PatientCategory,
		HRN:             referral.HRN,
		PatientFullName: referral.PatientFullName,
		CurrentAddress:  referral.CurrentAddress,
		Age:             referral.Age,
		Gender:          referral.Gender,

		SpecialtyID:       referral.SpecialtyID,
		OtherSpecialty:    referral.OtherSpecialty,
		IsUrgent:          referral.IsUrgent,
		ReasonForReferral: referral.ReasonForReferral,

		HospitalID:           referral.HospitalID,
		ReferrerName:         referral.ReferrerName,
		ReferrerProfession:   referral.ReferrerProfession,
		ReferrerCellphone:    referral.ReferrerCellphone,
		ModeOfTransportation: referral.ModeOfTransportation,
		ConsentSecured:       referral.ConsentSecured,

		AssignedTo:  UserToSummary(referral.AssignedTo),
		CreatedBy:   UserToSummary(referral.CreatedBy),
		TransitInfo: TransitInfoToResponse(referral.TransitInfo),

		CreatedAt:   referral.CreatedAt,
		UpdatedAt:   referral.UpdatedAt,
		CompletedAt: referral.CompletedAt,
	}

	if referral.TriageDecision != nil {
		response.TriageDecision = string(*referral.TriageDecision)
	}
	if !referral.Birthday.IsZero() {
		response.Birthday = referral.Birthday.Format(dateLayout)
	}
	if referral.Specialty.ID != 0 {
		response.Specialty = &dto.NamedRef{ID: referral.Specialty.ID, Name: referral.Specialty.Name}
	}
	if referral.Hospital.ID != 0 {
		response.Hospital = &dto.NamedRef{ID: referral.Hospital.ID, Name: referral.Hospital.Name}
	}
	if len(referral.StatusHistory) > 0 {
		response.StatusHistory = StatusHistoriesToResponses(referral.StatusHistory)
	}

	return response
}

// ReferralsToResponses converts a slice of Referral entities to slice of ReferralResponse DTOs
func ReferralsToResponses(referrals []entity.Referral) []dto.ReferralResponse {
	responses := make([]dto.ReferralResponse, len(referrals))
	for i := range referrals {
		responses[i] = *ReferralToResponse(&referrals[i])
	}
	return responses
}

func TransitInfoToResponse(info *entity.TransitInfo) *dto.TransitInfoResponse {
	if info == nil {
		return nil
	}

	return &dto.TransitInfoResponse{
		WatcherName:       info.WatcherName,
		WatcherAge:        info.WatcherAge,
		RelationToPatient: info.RelationToPatient,
		ContactNumber:     info.ContactNumber,
		EscortNurse:       info.EscortNurse,
		Driver:            info.Driver,
		ReferringMD:       info.ReferringMD,
		ReferringFacility: info.ReferringFacility,
		LatestVitalSigns:  info.LatestVitalSigns,
		GCS:               info.GCS,
		TimeAmbulanceLeft: info.TimeAmbulanceLeft,
		UpdatedAt:         info.UpdatedAt,
	}
}

// TransitInfoFromRequest builds the entity for a transit info request
func TransitInfoFromRequest(req *dto.TransitInfoRequest) *entity.TransitInfo {
	if req == nil {
		return nil
	}

	return &entity.TransitInfo{
		WatcherName:       req.WatcherName,
		WatcherAge:        req.WatcherAge,
		RelationToPatient: req.RelationToPatient,
		ContactNumber:     req.ContactNumber,
		EscortNurse:       req.EscortNurse,
		Driver:            req.Driver,
		ReferringMD:       req.ReferringMD,
		ReferringFacility: req.ReferringFacility,
		LatestVitalSigns:  req.LatestVitalSigns,
		GCS:               req.GCS,
		TimeAmbulanceLeft: req.TimeAmbulanceLeft,
	}
}

func StatusHistoryToResponse(history *entity.ReferralStatusHistory) dto.StatusHistoryResponse {
	return dto.StatusHistoryResponse{
		ID:        history.ID,
		Kind:      history.Kind,
		OldStatus: history.OldStatus,
		NewStatus: history.NewStatus,
		ChangedBy: UserToSummary(history.ChangedBy),
		Notes:     history.Notes,
		ChangedAt: history.ChangedAt,
	}
}

func StatusHistoriesToResponses(histories []entity.ReferralStatusHistory) []dto.StatusHistoryResponse {
	responses := make([]dto.StatusHistoryResponse, len(histories))
	for i := range histories {
		responses[i] = StatusHistoryToResponse(&histories[i])
	}
	return responses
}
