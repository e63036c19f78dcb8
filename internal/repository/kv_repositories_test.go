package repository

import (
	"context"
	"testing"
	"time"

	"mediflow/internal/domain/entity"
	"mediflow/internal/infrastructure/kvstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestProfileRepository(t *testing.T) {
	repo := NewProfileRepository(kvstore.NewMemoryStore(), newTestLocks(t), newTestLogger())
	ctx := context.Background()

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no profile, got %+v", got)
	}

	profile := &entity.StaffProfile{Name: "Anita", Mobile: "9876543210", Email: "anita@clinic.in"}
	if err := repo.Save(ctx, profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = repo.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != *profile {
		t.Fatalf("expected %+v, got %+v", profile, got)
	}
}

func TestUploadRepository_KeepsOnlyLatest(t *testing.T) {
	repo := NewUploadRepository(kvstore.NewMemoryStore(), newTestLocks(t), newTestLogger())
	ctx := context.Background()

	for _, name := range []string{"first.pdf", "second.pdf"} {
		if err := repo.SaveLastUploadedFile(ctx, &entity.UploadedFile{Name: name, URI: "file:///" + name, UploadedAt: time.Now()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	file, err := repo.GetLastUploadedFile(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file == nil || file.Name != "second.pdf" {
		t.Fatalf("expected second.pdf, got %+v", file)
	}

	prescription, err := repo.GetLastManualPrescription(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prescription != nil {
		t.Fatalf("expected no manual prescription, got %+v", prescription)
	}
}

func TestAuditLogRepository_CapsAndOrders(t *testing.T) {
	repo := NewAuditLogRepository(kvstore.NewMemoryStore(), newTestLocks(t), newTestLogger())
	ctx := context.Background()

	for i := 0; i < MaxAuditLogs+5; i++ {
		log := &entity.AuditLog{ID: uuid.New(), Action: entity.AuditActionPatientCreate, Metadata: entity.JSON{"n": i}}
		if err := repo.Create(ctx, log); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := repo.FindRecent(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != MaxAuditLogs {
		t.Fatalf("expected %d entries, got %d", MaxAuditLogs, len(all))
	}

	recent, err := repo.FindRecent(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	// numbers come back from JSON as float64
	if n := recent[0].Metadata["n"]; n != float64(MaxAuditLogs+4) {
		t.Errorf("expected newest entry first, got n=%v", n)
	}
}

func TestBillRepository(t *testing.T) {
	repo := NewBillRepository(kvstore.NewMemoryStore(), newTestLocks(t), newTestLogger())
	ctx := context.Background()

	var ids []uuid.UUID
	for i, patientID := range []int64{1, 2, 1} {
		bill := &entity.Bill{PatientID: patientID, Amount: decimal.NewFromInt(int64(100 * (i + 1)))}
		if err := repo.Create(ctx, bill); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, bill.ID)
	}

	page, total, err := repo.FindAll(ctx, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("expected 2 of 3 bills, got %d of %d", len(page), total)
	}
	if page[0].BillNumber != "BILL-00003" {
		t.Errorf("expected newest bill first, got %s", page[0].BillNumber)
	}

	page, _, err = repo.FindAll(ctx, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 || page[0].BillNumber != "BILL-00001" {
		t.Fatalf("unexpected last page %+v", page)
	}

	for _, offset := range []int{3, -1} {
		page, total, err = repo.FindAll(ctx, 2, offset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page) != 0 || total != 3 {
			t.Errorf("offset %d: expected an empty page, got %d bills", offset, len(page))
		}
	}

	bill, err := repo.FindByID(ctx, ids[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bill == nil || !bill.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected bill %+v", bill)
	}

	missing, err := repo.FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %+v", missing)
	}

	forPatient, err := repo.FindByPatientID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forPatient) != 2 {
		t.Fatalf("expected 2 bills for patient 1, got %d", len(forPatient))
	}
}

func TestSessionRepository(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	repo := NewSessionRepository(kv, newTestLogger())
	ctx := context.Background()
	now := time.Now()

	live := &entity.Session{TokenID: "live", Role: entity.RoleReceptionist, ExpiresAt: now.Add(time.Hour)}
	stale := &entity.Session{TokenID: "stale", Role: entity.RolePatient, PatientID: 7, ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []*entity.Session{live, stale} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := kv.Set(ctx, entity.KeyPatients, []byte("[]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Find(ctx, "stale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.PatientID != 7 {
		t.Fatalf("unexpected session %+v", got)
	}

	removed, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 expired session removed, got %d", removed)
	}

	if got, _ := repo.Find(ctx, "stale"); got != nil {
		t.Errorf("expected stale session gone, got %+v", got)
	}
	if got, _ := repo.Find(ctx, "live"); got == nil {
		t.Error("expected live session to remain")
	}
	if item, _ := kv.Get(ctx, entity.KeyPatients); item == nil {
		t.Error("expected non-session keys to be left alone")
	}
}
