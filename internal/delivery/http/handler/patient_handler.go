package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mediflow/internal/delivery/dto"
	"mediflow/internal/usecase"
	"mediflow/pkg/response"
	"mediflow/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Create handles patient registration
// @Summary Register a patient
// @Description Register a patient and book their first visit for today
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePatientRequest true "Create Patient Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrMobileAlreadyExists, usecase.ErrEmailAlreadyExists:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			respondError(w, err, "Failed to register patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

// List handles the patient list
// @Summary List patients
// @Description Search, filter by date range and status, and page through patients
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, mobile or date"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param sort query string false "all, new, pending or completed"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /patients [get]
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.PatientListQuery{
		Search:   q.Get("search"),
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
		Sort:     q.Get("sort"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patients, total, err := h.patientUsecase.List(r.Context(), &query)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateRange:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			respondError(w, err, "Failed to get patients")
		}
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, pageMeta(query.Page, query.Limit, total))
}

// CheckUnique reports whether a mobile or email is still free
// @Summary Check mobile or email uniqueness
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param field query string true "mobile or email"
// @Param value query string true "Value to check"
// @Param exclude_id query int false "Patient being edited"
// @Success 200 {object} response.Response
// @Router /patients/check-unique [get]
func (h *PatientHandler) CheckUnique(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	excludeID, _ := strconv.ParseInt(q.Get("exclude_id"), 10, 64)
	query := dto.CheckUniqueQuery{
		Field:     q.Get("field"),
		Value:     q.Get("value"),
		ExcludeID: excludeID,
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.patientUsecase.CheckUnique(r.Context(), &query)
	if err != nil {
		respondError(w, err, "Failed to check uniqueness")
		return
	}

	response.Success(w, http.StatusOK, "Uniqueness checked", result)
}

func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.patientUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// Update handles patient edits
// @Summary Update a patient
// @Description Edit contact and demographic details; id and visit history are kept
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param request body dto.UpdatePatientRequest true "Update Patient Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients/{id} [put]
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrMobileAlreadyExists, usecase.ErrEmailAlreadyExists:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			respondError(w, err, "Failed to update patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	if err := h.patientUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

// GetMine returns the logged in patient's own record
func (h *PatientHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetMine(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}
