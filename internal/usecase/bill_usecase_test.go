package usecase

import (
	"math"
	"testing"
	"time"

	"mediflow/config"
	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
	repoImpl "mediflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestBillUsecase(t *testing.T, env *testEnv, rate string) BillUsecase {
	t.Helper()
	billRepo := repoImpl.NewBillRepository(env.kv, env.locks, newTestLogger())
	clinic := config.ClinicConfig{
		GSTNumber: "27AAAPL1234C1ZV",
		GSTRate:   decimal.RequireFromString(rate),
		Location:  time.UTC,
	}
	return NewBillUsecase(newTestLogger(), billRepo, env.store, env.audit, clinic)
}

func TestBillUsecase_Create(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seedPatient(1, "Ravi", "9876543210", "2025-03-14", "09:00 AM", entity.PatientStatusPending))
	uc := newTestBillUsecase(t, env, "18")
	ctx := receptionistContext()

	tests := []struct {
		amount    string
		wantGST   string
		wantTotal string
	}{
		{amount: "999.99", wantGST: "180", wantTotal: "1179.99"},
		{amount: "500", wantGST: "90", wantTotal: "590"},
		{amount: "0.05", wantGST: "0.01", wantTotal: "0.06"},
	}

	for _, tt := range tests {
		bill, err := uc.Create(ctx, &dto.CreateBillRequest{PatientID: 1, Amount: decimal.RequireFromString(tt.amount)})
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.amount, err)
		}
		if !bill.GSTAmount.Equal(decimal.RequireFromString(tt.wantGST)) {
			t.Errorf("amount %s: expected GST %s, got %s", tt.amount, tt.wantGST, bill.GSTAmount)
		}
		if !bill.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
			t.Errorf("amount %s: expected total %s, got %s", tt.amount, tt.wantTotal, bill.Total)
		}
		if bill.PatientName != "Ravi" || bill.GSTNumber != "27AAAPL1234C1ZV" {
			t.Errorf("expected patient and clinic details on the bill, got %+v", bill)
		}
	}

	bills, total, err := uc.GetAll(ctx, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(bills) != 2 || bills[0].BillNumber != "BILL-00003" {
		t.Errorf("unexpected first page %+v (total %d)", bills, total)
	}

	got, err := uc.GetByID(ctx, bills[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BillNumber != "BILL-00002" {
		t.Errorf("expected BILL-00002, got %s", got.BillNumber)
	}

	forPatient, err := uc.GetByPatientID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forPatient) != 3 {
		t.Errorf("expected 3 bills for the patient, got %d", len(forPatient))
	}
}

func TestBillUsecase_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seedPatient(1, "Ravi", "9876543210", "2025-03-14", "09:00 AM", entity.PatientStatusPending))
	uc := newTestBillUsecase(t, env, "0")
	ctx := receptionistContext()

	if _, err := uc.Create(ctx, &dto.CreateBillRequest{PatientID: 1, Amount: decimal.Zero}); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := uc.Create(ctx, &dto.CreateBillRequest{PatientID: 1, Amount: decimal.NewFromInt(-5)}); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for a negative amount, got %v", err)
	}
	if _, err := uc.Create(ctx, &dto.CreateBillRequest{PatientID: 2, Amount: decimal.NewFromInt(100)}); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
	if _, err := uc.GetByID(ctx, uuid.New()); err != ErrBillNotFound {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}

	bill, err := uc.Create(ctx, &dto.CreateBillRequest{PatientID: 1, Amount: decimal.NewFromInt(250)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bill.GSTAmount.IsZero() || !bill.Total.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected no GST at a zero rate, got %+v", bill)
	}
}

func TestBillUsecase_GetAll_PageBeyondIntRange(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seedPatient(1, "Ravi", "9876543210", "2025-03-14", "09:00 AM", entity.PatientStatusPending))
	uc := newTestBillUsecase(t, env, "0")
	ctx := receptionistContext()

	if _, err := uc.Create(ctx, &dto.CreateBillRequest{PatientID: 1, Amount: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tt := range []struct{ page, limit int }{
		{page: 3, limit: math.MaxInt},
		{page: math.MaxInt, limit: 10},
	} {
		bills, total, err := uc.GetAll(ctx, tt.page, tt.limit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(bills) != 0 || total != 1 {
			t.Errorf("page %d limit %d: expected an empty page of 1 bill, got %d (total %d)", tt.page, tt.limit, len(bills), total)
		}
	}
}
