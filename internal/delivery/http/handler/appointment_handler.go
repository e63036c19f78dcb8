package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mediflow/internal/delivery/dto"
	"mediflow/internal/usecase"
	"mediflow/pkg/response"
	"mediflow/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Book books today's visit; an empty body falls back to the patient's last department and doctor
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.appointmentUsecase.Book(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrAlreadyBookedToday:
			response.Error(w, http.StatusConflict, "Patient already has an appointment today", nil)
		default:
			respondError(w, err, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", patient)
}

func (h *AppointmentHandler) Today(w http.ResponseWriter, r *http.Request) {
	query := dto.TodayAppointmentsQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointments, err := h.appointmentUsecase.Today(r.Context(), &query)
	if err != nil {
		respondError(w, err, "Failed to get today's appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Booked(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.Booked(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get booked appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.appointmentUsecase.SetStatus(r.Context(), id, &req)
	h.respondStatusChange(w, patient, err)
}

func (h *AppointmentHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.appointmentUsecase.ToggleStatus(r.Context(), id)
	h.respondStatusChange(w, patient, err)
}

func (h *AppointmentHandler) respondStatusChange(w http.ResponseWriter, patient *dto.PatientResponse, err error) {
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			respondError(w, err, "Failed to update status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Status updated successfully", patient)
}

func (h *AppointmentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.appointmentUsecase.Dashboard(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
