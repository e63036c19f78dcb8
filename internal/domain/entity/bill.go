package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is an invoice generated for a patient's visit
type Bill struct {
	ID          uuid.UUID       `json:"id"`
	BillNumber  string          `json:"billNumber"`
	PatientID   int64           `json:"patientId"`
	PatientName string          `json:"patientName"`
	Mobile      string          `json:"mobile"`
	Address     string          `json:"address"`
	GSTNumber   string          `json:"gstNo,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	GSTRate     decimal.Decimal `json:"gstRate"`
	GSTAmount   decimal.Decimal `json:"gstAmount"`
	Total       decimal.Decimal `json:"total"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
