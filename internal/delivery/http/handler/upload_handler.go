package handler

import (
	"encoding/json"
	"net/http"

	"mediflow/internal/delivery/dto"
	"mediflow/internal/usecase"
	"mediflow/pkg/response"
	"mediflow/pkg/validator"
)

type UploadHandler struct {
	uploadUsecase usecase.UploadUsecase
	validator     *validator.CustomValidator
}

func NewUploadHandler(uploadUsecase usecase.UploadUsecase, validator *validator.CustomValidator) *UploadHandler {
	return &UploadHandler{
		uploadUsecase: uploadUsecase,
		validator:     validator,
	}
}

func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	var req dto.UploadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	file, err := h.uploadUsecase.UploadFile(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to save uploaded file")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription uploaded successfully", file)
}

func (h *UploadHandler) SaveManualPrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.uploadUsecase.SaveManualPrescription(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to save prescription")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription saved successfully", prescription)
}

func (h *UploadHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.uploadUsecase.GetLatest(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get latest uploads")
		return
	}

	response.Success(w, http.StatusOK, "Latest uploads retrieved successfully", latest)
}
