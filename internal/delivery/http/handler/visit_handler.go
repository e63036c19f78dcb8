package handler

import (
	"encoding/json"
	"net/http"

	"mediflow/internal/delivery/dto"
	"mediflow/internal/usecase"
	"mediflow/pkg/response"
	"mediflow/pkg/validator"
)

type VisitHandler struct {
	visitUsecase usecase.VisitUsecase
	validator    *validator.CustomValidator
}

func NewVisitHandler(visitUsecase usecase.VisitUsecase, validator *validator.CustomValidator) *VisitHandler {
	return &VisitHandler{
		visitUsecase: visitUsecase,
		validator:    validator,
	}
}

// LogVisit appends a visit entry to a patient's history
func (h *VisitHandler) LogVisit(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	req, ok := h.decodeVisit(w, r)
	if !ok {
		return
	}

	patient, err := h.visitUsecase.LogVisit(r.Context(), id, req)
	h.respondLogged(w, patient, err)
}

// LogMyVisit lets a patient record notes against their own history
func (h *VisitHandler) LogMyVisit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeVisit(w, r)
	if !ok {
		return
	}

	patient, err := h.visitUsecase.LogMyVisit(r.Context(), req)
	h.respondLogged(w, patient, err)
}

func (h *VisitHandler) decodeVisit(w http.ResponseWriter, r *http.Request) (*dto.LogVisitRequest, bool) {
	var req dto.LogVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}

	return &req, true
}

func (h *VisitHandler) respondLogged(w http.ResponseWriter, patient *dto.PatientResponse, err error) {
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrEmptyVisit:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrDuplicateVisit:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			respondError(w, err, "Failed to log visit")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Visit logged successfully", patient)
}

func (h *VisitHandler) GetMyVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.visitUsecase.GetMyVisits(r.Context())
	if err != nil {
		h.respondSelfView(w, err, "Failed to get visits")
		return
	}

	response.Success(w, http.StatusOK, "Visits retrieved successfully", visits)
}

func (h *VisitHandler) GetMyPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.visitUsecase.GetMyPrescriptions(r.Context())
	if err != nil {
		h.respondSelfView(w, err, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *VisitHandler) GetMyReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.visitUsecase.GetMyReports(r.Context())
	if err != nil {
		h.respondSelfView(w, err, "Failed to get reports")
		return
	}

	response.Success(w, http.StatusOK, "Reports retrieved successfully", reports)
}

func (h *VisitHandler) respondSelfView(w http.ResponseWriter, err error, message string) {
	if err == usecase.ErrPatientNotFound {
		response.NotFound(w, "Patient not found")
		return
	}
	respondError(w, err, message)
}
