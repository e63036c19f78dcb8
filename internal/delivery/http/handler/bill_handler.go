package handler

import (
	"encoding/json"
	"net/http"

	"mediflow/internal/delivery/dto"
	"mediflow/internal/usecase"
	"mediflow/pkg/response"
	"mediflow/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BillHandler struct {
	billUsecase usecase.BillUsecase
	validator   *validator.CustomValidator
}

func NewBillHandler(billUsecase usecase.BillUsecase, validator *validator.CustomValidator) *BillHandler {
	return &BillHandler{
		billUsecase: billUsecase,
		validator:   validator,
	}
}

// Create handles bill generation
// @Summary Generate a bill
// @Description Bill a patient; GST is added at the clinic's configured rate
// @Tags Bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBillRequest true "Create Bill Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills [post]
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bill, err := h.billUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAmount:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			respondError(w, err, "Failed to create bill")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Bill created successfully", bill)
}

// GetAll handles getting all bills
// @Summary Get all bills
// @Description Get bills newest first with pagination
// @Tags Bills
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /bills [get]
func (h *BillHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	bills, total, err := h.billUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get bills")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bills retrieved successfully", bills, pageMeta(page, limit, total))
}

// GetByID handles getting a bill by ID
// @Summary Get bill by ID
// @Tags Bills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills/{id} [get]
func (h *BillHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bill ID", nil)
		return
	}

	bill, err := h.billUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrBillNotFound:
			response.NotFound(w, "Bill not found")
		default:
			response.InternalServerError(w, "Failed to get bill")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bill retrieved successfully", bill)
}

func (h *BillHandler) GetByPatientID(w http.ResponseWriter, r *http.Request) {
	id, err := patientIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	bills, err := h.billUsecase.GetByPatientID(r.Context(), id)
	if err != nil {
		response.InternalServerError(w, "Failed to get bills")
		return
	}

	response.Success(w, http.StatusOK, "Bills retrieved successfully", bills)
}
