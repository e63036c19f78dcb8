package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"mediflow/internal/delivery/http/middleware"
	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
	"mediflow/internal/infrastructure/kvstore"
	repoImpl "mediflow/internal/repository"
	"mediflow/pkg/jwt"
	"mediflow/pkg/keylock"

	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testEnv struct {
	kv    *kvstore.MemoryStore
	locks *keylock.KeyLock
	store repository.PatientRecordStore
	audit *fakeAuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	locks := keylock.NewWithInterval(newTestLogger(), time.Minute, time.Minute)
	t.Cleanup(locks.Stop)

	return &testEnv{
		kv:    kv,
		locks: locks,
		store: repoImpl.NewPatientRecordStore(kv, locks, newTestLogger(), repoImpl.PatientStoreOptions{
			MaxRetries: 3,
			Location:   time.UTC,
		}),
		audit: &fakeAuditService{},
	}
}

func (e *testEnv) seed(t *testing.T, patients ...entity.Patient) {
	t.Helper()
	if err := e.store.SaveAll(context.Background(), patients); err != nil {
		t.Fatalf("failed to seed patients: %v", err)
	}
}

func seedPatient(id int64, name, mobile, date, clock string, status entity.PatientStatus) entity.Patient {
	return entity.Patient{
		ID:         id,
		Name:       name,
		Mobile:     mobile,
		Address:    "12 MG Road",
		Department: entity.DefaultDepartment,
		Doctor:     entity.DefaultDoctor,
		Date:       date,
		Time:       clock,
		Status:     status,
		VisitHistory: []entity.VisitHistoryEntry{{
			ID:         "v1",
			Date:       date,
			Time:       clock,
			Department: entity.DefaultDepartment,
			Doctor:     entity.DefaultDoctor,
			Status:     status,
		}},
	}
}

func receptionistContext() context.Context {
	return context.WithValue(context.Background(), middleware.IdentityKey, jwt.Identity{
		Name: "Anita",
		Role: string(entity.RoleReceptionist),
	})
}

func patientContext(id int64, name string) context.Context {
	return context.WithValue(context.Background(), middleware.IdentityKey, jwt.Identity{
		Name:      name,
		Role:      string(entity.RolePatient),
		PatientID: id,
	})
}

type auditCall struct {
	actor  string
	action string
	id     string
}

// fakeAuditService records calls instead of writing audit logs
type fakeAuditService struct {
	mu    sync.Mutex
	calls []auditCall
	err   error
}

func (f *fakeAuditService) record(actor, action, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{actor: actor, action: action, id: id})
	return f.err
}

func (f *fakeAuditService) LogCreate(ctx context.Context, actor string, action string, entityName string, entityID string, newValue interface{}) error {
	return f.record(actor, action, entityID)
}

func (f *fakeAuditService) LogUpdate(ctx context.Context, actor string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return f.record(actor, action, entityID)
}

func (f *fakeAuditService) LogDelete(ctx context.Context, actor string, action string, entityName string, entityID string, oldValue interface{}) error {
	return f.record(actor, action, entityID)
}

func (f *fakeAuditService) Recent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditService) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		actions = append(actions, c.action)
	}
	return actions
}
