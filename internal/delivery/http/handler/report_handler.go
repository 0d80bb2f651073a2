package handler

import (
	"net/http"

	"emergency-referral/internal/usecase"
	"emergency-referral/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

func (h *ReportHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportUsecase.GetDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *ReportHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.reportUsecase.GetAnalytics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get analytics")
		return
	}

	response.Success(w, http.StatusOK, "Analytics retrieved successfully", analytics)
}

func (h *ReportHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.reportUsecase.GetActivity(r.Context(), queryInt(r.URL.Query(), "limit", 0))
	if err != nil {
		response.InternalServerError(w, "Failed to get activity")
		return
	}

	response.Success(w, http.StatusOK, "Activity retrieved successfully", activity)
}

func (h *ReportHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	patients, err := h.reportUsecase.ListPatients(r.Context(), queryInt(q, "page", 1), queryInt(q, "limit", 0))
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients,
		response.NewMeta(patients.Page, patients.Limit, patients.Total))
}

func (h *ReportHandler) GetPatientHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.reportUsecase.GetPatientHistory(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		switch err {
		case usecase.ErrPatientNameRequired:
			response.BadRequest(w, "Patient name is required")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient history")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient history retrieved successfully", history)
}
