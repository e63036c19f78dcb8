package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
)

var (
	ErrNotAPatient          = errors.New("only patients can use this resource")
	ErrStorageUnavailable   = errors.New("clinic records are temporarily unreadable")
	ErrConcurrentUpdate     = errors.New("record was changed by someone else, please retry")
	ErrIdentityNotInContext = errors.New("user not found in context")
)

// storeError translates record store failures shared by every usecase
func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCollectionUnreadable):
		return ErrStorageUnavailable
	case errors.Is(err, repository.ErrConcurrentModification):
		return ErrConcurrentUpdate
	case errors.Is(err, repository.ErrDuplicateMobile):
		return ErrMobileAlreadyExists
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailAlreadyExists
	case errors.Is(err, repository.ErrAlreadyBookedToday):
		return ErrAlreadyBookedToday
	case errors.Is(err, repository.ErrInvalidStatus):
		return ErrInvalidStatus
	case errors.Is(err, repository.ErrDuplicateVisitID):
		return ErrDuplicateVisit
	default:
		return err
	}
}

// currentPatientID returns the patient the caller logged in as
func currentPatientID(ctx context.Context) (int64, error) {
	identity, ok := middleware.GetIdentityFromContext(ctx)
	if !ok {
		return 0, ErrIdentityNotInContext
	}
	if entity.Role(identity.Role) != entity.RolePatient || identity.PatientID == 0 {
		return 0, ErrNotAPatient
	}
	return identity.PatientID, nil
}

// clinicClock reads the current time in the clinic's timezone
type clinicClock struct {
	location *time.Location
	now      func() time.Time
}

func newClinicClock(location *time.Location) clinicClock {
	if location == nil {
		location = time.Local
	}
	return clinicClock{location: location, now: time.Now}
}

func (c clinicClock) Now() time.Time {
	return c.now().In(c.location)
}

func (c clinicClock) Today() string {
	return c.Now().Format(entity.DateLayout)
}

// pageOffset returns the first index of a page, saturating at math.MaxInt
// instead of overflowing for very large page numbers.
func pageOffset(page, limit int) int {
	if page <= 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
