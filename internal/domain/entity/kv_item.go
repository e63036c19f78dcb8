package entity

import "time"

// KVItem is one value of the key-value store together with its version stamp.
// Version starts at 1 on first write and grows by one on every write.
type KVItem struct {
	Key       string    `gorm:"type:varchar(255);primaryKey" json:"key"`
	Value     []byte    `gorm:"type:bytea;not null" json:"value"`
	Version   int64     `gorm:"not null;default:1" json:"version"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVItem) TableName() string {
	return "kv_items"
}

// Keys of the logical tables kept in the key-value store
const (
	KeyPatients               = "patients"
	KeyAppointments           = "appointments"
	KeyProfile                = "profile"
	KeyLastUploadedFile       = "lastUploadedFile"
	KeyLastManualPrescription = "lastManualPrescription"
	KeyBills                  = "bills"
	KeyAuditLogs              = "auditLogs"
	KeySessionPrefix          = "session:"
)
