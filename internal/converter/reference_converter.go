package converter

import (
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/domain/entity"
)

const regionOutsideMetro = "Outside"

// HospitalToResponse converts a Hospital entity to HospitalResponse DTO.
// metroName labels the region of facilities inside the metro area.
func HospitalToResponse(hospital *entity.Hospital, metroName string) *dto.HospitalResponse {
	if hospital == nil {
		return nil
	}

	region := regionOutsideMetro + " " + metroName
	if hospital.IsInsideMetro {
		region = metroName
	}

	return &dto.HospitalResponse{
		ID:            hospital.ID,
		Name:          hospital.Name,
		IsInsideMetro: hospital.IsInsideMetro,
		Region:        region,
		Location:      hospital.Location,
		Address:       hospital.Address,
		ContactNumber: hospital.ContactNumber,
		Status:        string(hospital.Status),
		CreatedAt:     hospital.CreatedAt,
		UpdatedAt:     hospital.UpdatedAt,
	}
}

func HospitalsToResponses(hospitals []entity.Hospital, metroName string) []dto.HospitalResponse {
	responses := make([]dto.HospitalResponse, len(hospitals))
	for i := range hospitals {
		responses[i] = *HospitalToResponse(&hospitals[i], metroName)
	}
	return responses
}

func SpecialtyToResponse(specialty *entity.Specialty) *dto.SpecialtyResponse {
	if specialty == nil {
		return nil
	}

	return &dto.SpecialtyResponse{
		ID:          specialty.ID,
		Name:        specialty.Name,
		Description: specialty.Description,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = *SpecialtyToResponse(&specialties[i])
	}
	return responses
}
