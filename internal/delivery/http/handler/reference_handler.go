package handler

import (
	"net/http"
	"strconv"

	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/usecase"
	"emergency-referral/pkg/response"
	"emergency-referral/pkg/validator"

	"github.com/gorilla/mux"
)

type ReferenceHandler struct {
	referenceUsecase usecase.ReferenceUsecase
	validator        *validator.CustomValidator
}

func NewReferenceHandler(referenceUsecase usecase.ReferenceUsecase, validator *validator.CustomValidator) *ReferenceHandler {
	return &ReferenceHandler{
		referenceUsecase: referenceUsecase,
		validator:        validator,
	}
}

func (h *ReferenceHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hospitals, err := h.referenceUsecase.ListHospitals(r.Context(), &dto.HospitalListQuery{
		Search:        q.Get("search"),
		IsInsideMetro: queryBool(q, "is_inside_metro"),
		Location:      q.Get("location"),
	})
	if err != nil {
		response.InternalServerError(w, "Failed to get hospitals")
		return
	}

	response.Success(w, http.StatusOK, "Hospitals retrieved successfully", hospitals)
}

func (h *ReferenceHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
		return
	}

	hospital, err := h.referenceUsecase.GetHospital(r.Context(), id)
	if err != nil {
		if err == usecase.ErrHospitalNotFound {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to get hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital retrieved successfully", hospital)
}

func (h *ReferenceHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req dto.HospitalRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	hospital, err := h.referenceUsecase.CreateHospital(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create hospital")
		return
	}

	response.Success(w, http.StatusCreated, "Hospital created successfully", hospital)
}

func (h *ReferenceHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
		return
	}

	var req dto.HospitalRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	hospital, err := h.referenceUsecase.UpdateHospital(r.Context(), id, &req)
	if err != nil {
		if err == usecase.ErrHospitalNotFound {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to update hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital updated successfully", hospital)
}

func (h *ReferenceHandler) UpdateHospitalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
		return
	}

	var req dto.HospitalStatusRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	hospital, err := h.referenceUsecase.UpdateHospitalStatus(r.Context(), id, &req)
	if err != nil {
		if err == usecase.ErrHospitalNotFound {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to update hospital status")
		return
	}

	response.Success(w, http.StatusOK, "Hospital status updated successfully", hospital)
}

func (h *ReferenceHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.referenceUsecase.ListSpecialties(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}

func (h *ReferenceHandler) CreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var req dto.SpecialtyRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.referenceUsecase.CreateSpecialty(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrSpecialtyAlreadyExists {
			response.Conflict(w, "Specialty already exists")
			return
		}
		response.InternalServerError(w, "Failed to create specialty")
		return
	}

	response.Success(w, http.StatusCreated, "Specialty created successfully", specialty)
}
