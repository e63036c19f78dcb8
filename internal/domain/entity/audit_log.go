package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        uuid.UUID `json:"id"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Metadata  JSON      `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// JSON holds free-form audit metadata
type JSON map[string]interface{}

// Common audit actions
const (
	AuditActionUserLogin     = "user.login"
	AuditActionUserLogout    = "user.logout"
	AuditActionPatientCreate = "patient.create"
	AuditActionPatientUpdate = "patient.update"
	AuditActionPatientDelete = "patient.delete"
	AuditActionPatientStatus = "patient.status"
	AuditActionBookingCreate = "booking.create"
	AuditActionVisitCreate   = "visit.create"
	AuditActionProfileUpdate = "profile.update"
	AuditActionUploadFile    = "upload.file"
	AuditActionUploadManual  = "upload.manual_prescription"
	AuditActionBillCreate    = "bill.create"
)
