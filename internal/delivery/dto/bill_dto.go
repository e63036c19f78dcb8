package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBillRequest struct {
	PatientID   int64           `json:"patient_id" validate:"required,gte=1"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"omitempty,max=500"`
}

// Response DTOs

type BillResponse struct {
	ID          uuid.UUID       `json:"id"`
	BillNumber  string          `json:"bill_number"`
	PatientID   int64           `json:"patient_id"`
	PatientName string          `json:"patient_name"`
	Mobile      string          `json:"mobile"`
	Address     string          `json:"address"`
	GSTNumber   string          `json:"gst_no,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	Total       decimal.Decimal `json:"total"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
