package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mediflow/internal/domain/entity"
	domainRepo "mediflow/internal/domain/repository"
	"mediflow/pkg/keylock"

	"github.com/sirupsen/logrus"
)

// PatientStoreOptions tunes the record store
type PatientStoreOptions struct {
	MaxRetries int
	Location   *time.Location
}

type patientRecordStore struct {
	patients     *jsonDocument[[]entity.Patient]
	appointments *jsonDocument[[]entity.Patient]
	log          *logrus.Logger
	location     *time.Location
	now          func() time.Time
}

func NewPatientRecordStore(kv domainRepo.KeyValueStore, locks *keylock.KeyLock, log *logrus.Logger, opts PatientStoreOptions) domainRepo.PatientRecordStore {
	return newPatientRecordStore(kv, locks, log, opts)
}

func newPatientRecordStore(kv domainRepo.KeyValueStore, locks *keylock.KeyLock, log *logrus.Logger, opts PatientStoreOptions) *patientRecordStore {
	location := opts.Location
	if location == nil {
		location = time.Local
	}
	return &patientRecordStore{
		patients:     newJSONDocument(kv, locks, entity.KeyPatients, opts.MaxRetries, log, emptyPatients),
		appointments: newJSONDocument(kv, locks, entity.KeyAppointments, opts.MaxRetries, log, emptyPatients),
		log:          log,
		location:     location,
		now:          time.Now,
	}
}

func emptyPatients() []entity.Patient {
	return []entity.Patient{}
}

func (s *patientRecordStore) LoadAll(ctx context.Context) ([]entity.Patient, error) {
	list, err := s.patients.load(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

func (s *patientRecordStore) SaveAll(ctx context.Context, patients []entity.Patient) error {
	return s.patients.overwrite(ctx, nonNil(patients))
}

func (s *patientRecordStore) FindByID(ctx context.Context, id int64) (*entity.Patient, error) {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(list, id); idx >= 0 {
		p := list[idx].Clone()
		return &p, nil
	}
	return nil, nil
}

func (s *patientRecordStore) AddPatient(ctx context.Context, draft entity.PatientDraft) (*entity.Patient, error) {
	now := s.clock()
	var created entity.Patient

	err := s.patients.update(ctx, func(list []entity.Patient) ([]entity.Patient, error) {
		if err := checkUnique(list, draft.Mobile, draft.Email, 0); err != nil {
			return nil, err
		}

		department := firstNonEmpty(draft.Department, entity.DefaultDepartment)
		doctor := firstNonEmpty(draft.Doctor, entity.DefaultDoctor)

		created = entity.Patient{
			ID:         nextPatientID(list, now),
			Name:       draft.Name,
			Mobile:     draft.Mobile,
			Address:    draft.Address,
			Email:      draft.Email,
			Age:        draft.Age,
			Gender:     draft.Gender,
			BloodGroup: draft.BloodGroup,
			Note:       draft.Note,
			Department: department,
			Doctor:     doctor,
			Date:       now.Format(entity.DateLayout),
			Time:       now.Format(entity.TimeLayout),
			Status:     entity.PatientStatusPending,
		}
		created.VisitHistory = []entity.VisitHistoryEntry{{
			ID:         newVisitID(&created, now),
			Date:       created.Date,
			Time:       created.Time,
			Department: department,
			Doctor:     doctor,
			Status:     entity.PatientStatusPending,
		}}

		return append(nonNil(list), created.Clone()), nil
	})
	if err != nil {
		return nil, err
	}

	s.appendAppointment(ctx, created)
	return &created, nil
}

func (s *patientRecordStore) UpdatePatient(ctx context.Context, id int64, mutation domainRepo.PatientMutation) (*entity.Patient, error) {
	var updated *entity.Patient

	err := s.patients.update(ctx, func(list []entity.Patient) ([]entity.Patient, error) {
		updated = nil

		idx := indexOf(list, id)
		if idx < 0 {
			return nil, errSkipWrite
		}

		before := list[idx]
		p := before.Clone()
		if err := mutation(&p); err != nil {
			return nil, err
		}
		p.ID = before.ID

		if err := checkHistoryAppendOnly(before.VisitHistory, p.VisitHistory); err != nil {
			return nil, err
		}
		if p.Mobile != before.Mobile || !strings.EqualFold(p.Email, before.Email) {
			if err := checkUnique(list, p.Mobile, p.Email, p.ID); err != nil {
				return nil, err
			}
		}

		list[idx] = p
		result := p.Clone()
		updated = &result
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *patientRecordStore) DeletePatient(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := s.patients.update(ctx, func(list []entity.Patient) ([]entity.Patient, error) {
		deleted = false

		idx := indexOf(list, id)
		if idx < 0 {
			return nil, errSkipWrite
		}

		remaining := make([]entity.Patient, 0, len(list)-1)
		remaining = append(remaining, list[:idx]...)
		remaining = append(remaining, list[idx+1:]...)
		deleted = true
		return remaining, nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ValidateUniqueness reports whether value is free for field, ignoring the
// record excludingID (0 excludes nothing). Empty values are always free.
func (s *patientRecordStore) ValidateUniqueness(ctx context.Context, field, value string, excludingID int64) (bool, error) {
	if field != domainRepo.UniqueFieldMobile && field != domainRepo.UniqueFieldEmail {
		return false, domainRepo.ErrUnsupportedUniqueField
	}

	list, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}

	switch field {
	case domainRepo.UniqueFieldMobile:
		return checkUnique(list, value, "", excludingID) == nil, nil
	default:
		return checkUnique(list, "", value, excludingID) == nil, nil
	}
}

// BookAppointment appends today's pending visit and moves the root record to
// it. A patient already holding a visit dated today is rejected unchanged.
func (s *patientRecordStore) BookAppointment(ctx context.Context, patientID int64, department, doctor string) (*entity.Patient, error) {
	now := s.clock()
	today := now.Format(entity.DateLayout)

	booked, err := s.UpdatePatient(ctx, patientID, func(p *entity.Patient) error {
		if p.HasVisitOn(today) {
			return domainRepo.ErrAlreadyBookedToday
		}

		entry := entity.VisitHistoryEntry{
			ID:         newVisitID(p, now),
			Date:       today,
			Time:       now.Format(entity.TimeLayout),
			Department: firstNonEmpty(department, p.Department, entity.DefaultDepartment),
			Doctor:     firstNonEmpty(doctor, p.Doctor, entity.DefaultDoctor),
			Status:     entity.PatientStatusPending,
		}

		p.VisitHistory = append(p.VisitHistory, entry)
		p.Date = entry.Date
		p.Time = entry.Time
		p.Status = entry.Status
		p.Department = entry.Department
		p.Doctor = entry.Doctor
		return nil
	})
	if err != nil || booked == nil {
		return booked, err
	}

	s.appendAppointment(ctx, *booked)
	return booked, nil
}

// SetStatus changes only the root status; the matching history entry is left
// as it was.
func (s *patientRecordStore) SetStatus(ctx context.Context, patientID int64, status entity.PatientStatus) (*entity.Patient, error) {
	if !entity.ValidPatientStatus(status) {
		return nil, domainRepo.ErrInvalidStatus
	}
	return s.UpdatePatient(ctx, patientID, func(p *entity.Patient) error {
		p.Status = status
		return nil
	})
}

func (s *patientRecordStore) ToggleStatus(ctx context.Context, patientID int64) (*entity.Patient, error) {
	return s.UpdatePatient(ctx, patientID, func(p *entity.Patient) error {
		if p.IsCompleted() {
			p.Status = entity.PatientStatusPending
		} else {
			p.Status = entity.PatientStatusCompleted
		}
		return nil
	})
}

// LogVisit appends a clinical visit entry. Missing id, date, time and status
// are filled from the clock; the root status follows the new entry.
func (s *patientRecordStore) LogVisit(ctx context.Context, patientID int64, entry entity.VisitHistoryEntry) (*entity.Patient, error) {
	now := s.clock()
	if entry.Status != "" && !entity.ValidPatientStatus(entry.Status) {
		return nil, domainRepo.ErrInvalidStatus
	}

	return s.UpdatePatient(ctx, patientID, func(p *entity.Patient) error {
		visit := entry
		if visit.ID == "" {
			visit.ID = newVisitID(p, now)
		} else if p.HasVisitID(visit.ID) {
			return domainRepo.ErrDuplicateVisitID
		}
		if visit.Date == "" {
			visit.Date = now.Format(entity.DateLayout)
		}
		if visit.Time == "" {
			visit.Time = now.Format(entity.TimeLayout)
		}
		if visit.Status == "" {
			visit.Status = entity.PatientStatusCompleted
		}
		visit.Department = firstNonEmpty(visit.Department, p.Department, entity.DefaultDepartment)
		visit.Doctor = firstNonEmpty(visit.Doctor, p.Doctor)

		p.VisitHistory = append(p.VisitHistory, visit)
		p.Status = visit.Status
		return nil
	})
}

func (s *patientRecordStore) LoadAppointments(ctx context.Context) ([]entity.Patient, error) {
	list, err := s.appointments.load(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

// appendAppointment mirrors a booking into the appointments table. The table
// is not authoritative, so a failure here is logged and the booking stands.
func (s *patientRecordStore) appendAppointment(ctx context.Context, snapshot entity.Patient) {
	err := s.appointments.update(ctx, func(list []entity.Patient) ([]entity.Patient, error) {
		return append(nonNil(list), snapshot.Clone()), nil
	})
	if err != nil {
		s.log.Warnf("Failed to mirror booking of patient %d into appointments (non-fatal): %+v", snapshot.ID, err)
	}
}

func (s *patientRecordStore) clock() time.Time {
	return s.now().In(s.location)
}

func nonNil(list []entity.Patient) []entity.Patient {
	if list == nil {
		return []entity.Patient{}
	}
	return list
}

func indexOf(list []entity.Patient, id int64) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// checkUnique rejects mobile/email already held by a record other than excludingID
func checkUnique(list []entity.Patient, mobile, email string, excludingID int64) error {
	mobile = strings.TrimSpace(mobile)
	email = strings.TrimSpace(email)

	for i := range list {
		p := &list[i]
		if excludingID != 0 && p.ID == excludingID {
			continue
		}
		if mobile != "" && strings.TrimSpace(p.Mobile) == mobile {
			return domainRepo.ErrDuplicateMobile
		}
		if email != "" && strings.EqualFold(strings.TrimSpace(p.Email), email) {
			return domainRepo.ErrDuplicateEmail
		}
	}
	return nil
}

// checkHistoryAppendOnly allows edits in place and appends, never removal or reordering
func checkHistoryAppendOnly(before, after []entity.VisitHistoryEntry) error {
	if len(after) < len(before) {
		return domainRepo.ErrVisitHistoryRewritten
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			return domainRepo.ErrVisitHistoryRewritten
		}
	}

	seen := make(map[string]struct{}, len(after))
	for _, v := range after {
		if _, ok := seen[v.ID]; ok {
			return fmt.Errorf("%w: %s", domainRepo.ErrDuplicateVisitID, v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return nil
}

// nextPatientID derives the id from the clock in milliseconds, stepping past
// any id already in the collection so ids stay unique and increasing.
func nextPatientID(list []entity.Patient, now time.Time) int64 {
	id := now.UnixMilli()
	for i := range list {
		if list[i].ID >= id {
			id = list[i].ID + 1
		}
	}
	return id
}

// newVisitID derives a visit id from the clock, suffixed when p already uses it
func newVisitID(p *entity.Patient, now time.Time) string {
	base := strconv.FormatInt(now.UnixMilli(), 10)
	id := base
	for n := 1; p.HasVisitID(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
