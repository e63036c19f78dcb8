package repository

import (
	"context"
	"errors"

	"mediflow/internal/domain/entity"
)

var (
	ErrDuplicateMobile        = errors.New("mobile number already registered")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrAlreadyBookedToday     = errors.New("patient already has an appointment today")
	ErrCollectionUnreadable   = errors.New("stored collection is unreadable")
	ErrConcurrentModification = errors.New("collection modified concurrently, retries exhausted")
	ErrVisitHistoryRewritten  = errors.New("visit history entries can only be appended")
	ErrDuplicateVisitID       = errors.New("visit entry id already used")
	ErrInvalidStatus          = errors.New("invalid patient status")
	ErrUnsupportedUniqueField = errors.New("uniqueness can only be checked for mobile or email")
)

// Fields checked by ValidateUniqueness
const (
	UniqueFieldMobile = "mobile"
	UniqueFieldEmail  = "email"
)

// PatientMutation applies field-level changes to a loaded record
type PatientMutation func(p *entity.Patient) error

// PatientRecordStore gives whole-collection access to the "patients" table and
// the derived "appointments" table. Every mutation reads the whole collection,
// changes it in memory and writes it back under a version check.
type PatientRecordStore interface {
	LoadAll(ctx context.Context) ([]entity.Patient, error)
	SaveAll(ctx context.Context, patients []entity.Patient) error
	FindByID(ctx context.Context, id int64) (*entity.Patient, error)
	AddPatient(ctx context.Context, draft entity.PatientDraft) (*entity.Patient, error)
	UpdatePatient(ctx context.Context, id int64, mutation PatientMutation) (*entity.Patient, error)
	DeletePatient(ctx context.Context, id int64) (bool, error)
	ValidateUniqueness(ctx context.Context, field, value string, excludingID int64) (bool, error)
	BookAppointment(ctx context.Context, patientID int64, department, doctor string) (*entity.Patient, error)
	SetStatus(ctx context.Context, patientID int64, status entity.PatientStatus) (*entity.Patient, error)
	ToggleStatus(ctx context.Context, patientID int64) (*entity.Patient, error)
	LogVisit(ctx context.Context, patientID int64, entry entity.VisitHistoryEntry) (*entity.Patient, error)
	LoadAppointments(ctx context.Context) ([]entity.Patient, error)
}
