package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/domain/lifecycle"
	"emergency-referral/internal/usecase"
	"emergency-referral/pkg/response"
	"emergency-referral/pkg/validator"

	"github.com/gorilla/mux"
)

type ReferralHandler struct {
	referralUsecase usecase.ReferralUsecase
	validator       *validator.CustomValidator
}

func NewReferralHandler(referralUsecase usecase.ReferralUsecase, validator *validator.CustomValidator) *ReferralHandler {
	return &ReferralHandler{
		referralUsecase: referralUsecase,
		validator:       validator,
	}
}

// SubmitReferral handles a new referral from staff or an external facility
// @Summary Submit referral
// @Tags Referrals
// @Accept json
// @Produce json
// @Param request body dto.SubmitReferralRequest true "Submit Referral Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /referrals [post]
func (h *ReferralHandler) SubmitReferral(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitReferralRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	referral, err := h.referralUsecase.SubmitReferral(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrTransitInfoRequired, usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		case usecase.ErrSpecialtyNotFound, usecase.ErrHospitalNotFound:
			response.BadRequest(w, err.Error())
		case usecase.ErrReferenceCodeTaken:
			response.Conflict(w, err.Error())
		default:
			writeLifecycleError(w, r, err, "Failed to submit referral")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Referral submitted successfully", referral)
}

// TransferToTriage hands a pending referral over to call triage
// @Summary Transfer referral to triage
// @Tags Referrals
// @Security BearerAuth
// @Param id path string true "Referral ID or reference code"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /referrals/{id}/transfer [post]
func (h *ReferralHandler) TransferToTriage(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferReferralRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	referral, err := h.referralUsecase.TransferToTriage(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to transfer referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral transferred to triage", referral)
}

// AcceptReferral records the triage decision
// @Summary Accept referral with triage decision
// @Tags Referrals
// @Security BearerAuth
// @Param id path string true "Referral ID or reference code"
// @Param request body dto.AcceptReferralRequest true "Accept Referral Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /referrals/{id}/accept [post]
func (h *ReferralHandler) AcceptReferral(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptReferralRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	referral, err := h.referralUsecase.AcceptWithTriageDecision(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to accept referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral accepted", referral)
}

func (h *ReferralHandler) CompleteReferral(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteReferralRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	referral, err := h.referralUsecase.CompleteReferral(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to complete referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral completed", referral)
}

func (h *ReferralHandler) CancelReferral(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelReferralRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	referral, err := h.referralUsecase.CancelReferral(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to cancel referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral cancelled", referral)
}

func (h *ReferralHandler) AssignToMe(w http.ResponseWriter, r *http.Request) {
	referral, err := h.referralUsecase.AssignToMe(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to assign referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral assigned", referral)
}

func (h *ReferralHandler) DispatchTransport(w http.ResponseWriter, r *http.Request) {
	var req dto.TransportRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	referral, err := h.referralUsecase.DispatchTransport(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to dispatch transport")
		return
	}

	response.Success(w, http.StatusOK, "Patient marked as in transit", referral)
}

func (h *ReferralHandler) ArriveTransport(w http.ResponseWriter, r *http.Request) {
	var req dto.TransportRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	referral, err := h.referralUsecase.ArriveTransport(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to record arrival")
		return
	}

	response.Success(w, http.StatusOK, "Patient marked as arrived", referral)
}

func (h *ReferralHandler) UpsertTransitInfo(w http.ResponseWriter, r *http.Request) {
	var req dto.TransitInfoRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	referral, err := h.referralUsecase.UpsertTransitInfo(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to save transit info")
		return
	}

	response.Success(w, http.StatusOK, "Transit info saved", referral)
}

func (h *ReferralHandler) GetReferral(w http.ResponseWriter, r *http.Request) {
	referral, err := h.referralUsecase.GetReferral(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to get referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral retrieved successfully", referral)
}

func (h *ReferralHandler) GetReferralHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.referralUsecase.GetReferralHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to get referral history")
		return
	}

	response.Success(w, http.StatusOK, "Referral history retrieved successfully", history)
}

// ListReferrals handles the filtered referral list
// @Summary List referrals
// @Tags Referrals
// @Security BearerAuth
// @Param status query string false "Status filter, repeatable or comma separated"
// @Param priority query string false "Priority"
// @Param is_urgent query bool false "Urgent flag"
// @Param specialty_id query int false "Specialty"
// @Param hospital_id query int false "Referring hospital"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param search query string false "Free text search"
// @Success 200 {object} response.Response
// @Router /referrals [get]
func (h *ReferralHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &dto.ReferralListQuery{
		Status:      queryList(q, "status"),
		Priority:    q.Get("priority"),
		IsUrgent:    queryBool(q, "is_urgent"),
		SpecialtyID: queryInt(q, "specialty_id", 0),
		HospitalID:  queryInt(q, "hospital_id", 0),
		StartDate:   q.Get("start_date"),
		EndDate:     q.Get("end_date"),
		Search:      q.Get("search"),
		Page:        queryInt(q, "page", 1),
		Limit:       queryInt(q, "limit", 0),
	}

	referrals, err := h.referralUsecase.ListReferrals(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get referrals")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Referrals retrieved successfully", referrals,
		response.NewMeta(referrals.Page, referrals.Limit, referrals.Total))
}

func (h *ReferralHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.referralUsecase.GetQueue(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

func (h *ReferralHandler) GetMyReferrals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	referrals, err := h.referralUsecase.GetMyReferrals(r.Context(), queryInt(q, "page", 1), queryInt(q, "limit", 0))
	if err != nil {
		writeLifecycleError(w, r, err, "Failed to get assigned referrals")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Assigned referrals retrieved successfully", referrals,
		response.NewMeta(referrals.Page, referrals.Limit, referrals.Total))
}

// decodeOptional decodes a JSON body that may be absent entirely.
func (h *ReferralHandler) decodeOptional(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

// writeLifecycleError maps lifecycle outcomes onto HTTP statuses.
// An unauthorized anonymous caller gets 401, an authenticated one 403.
func writeLifecycleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, lifecycle.ErrUnauthorized):
		if middleware.GetActorFromContext(r.Context()).Anonymous {
			response.Unauthorized(w, "Authentication required")
			return
		}
		response.Forbidden(w, "You don't have permission to perform this action")
	case errors.Is(err, lifecycle.ErrMissingDecision):
		response.BadRequest(w, err.Error())
	case errors.Is(err, lifecycle.ErrNotFound):
		response.NotFound(w, "Referral not found")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
