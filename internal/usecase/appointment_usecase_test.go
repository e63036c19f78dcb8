package usecase

import (
	"context"
	"testing"
	"time"

	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
)

func newTestAppointmentUsecase(env *testEnv, now time.Time) *appointmentUsecase {
	uc := NewAppointmentUsecase(newTestLogger(), env.store, env.audit, time.UTC).(*appointmentUsecase)
	uc.clock.now = func() time.Time { return now }
	return uc
}

func appointmentIDs(list *dto.AppointmentListResponse) []int64 {
	ids := make([]int64, 0, len(list.Appointments))
	for _, a := range list.Appointments {
		ids = append(ids, a.PatientID)
	}
	return ids
}

func TestAppointmentUsecase_Today(t *testing.T) {
	env := newTestEnv(t)
	seedPatientList(t, env)
	uc := newTestAppointmentUsecase(env, testNow)

	tests := []struct {
		name    string
		query   dto.TodayAppointmentsQuery
		wantIDs []int64
	}{
		{name: "only today", query: dto.TodayAppointmentsQuery{}, wantIDs: []int64{3, 4}},
		{name: "completed first", query: dto.TodayAppointmentsQuery{Sort: SortCompletedFirst}, wantIDs: []int64{4, 3}},
		{name: "pending first", query: dto.TodayAppointmentsQuery{Sort: SortPendingFirst}, wantIDs: []int64{3, 4}},
		{name: "search by time", query: dto.TodayAppointmentsQuery{Search: "04:30"}, wantIDs: []int64{4}},
		{name: "search by name", query: dto.TodayAppointmentsQuery{Search: "arjun"}, wantIDs: []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := uc.Today(context.Background(), &tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := appointmentIDs(list); !equalIDs(got, tt.wantIDs) {
				t.Errorf("expected %v, got %v", tt.wantIDs, got)
			}
			if list.Total != len(tt.wantIDs) {
				t.Errorf("expected total %d, got %d", len(tt.wantIDs), list.Total)
			}
		})
	}
}

func TestAppointmentUsecase_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	seedPatientList(t, env)
	uc := newTestAppointmentUsecase(env, testNow)

	dashboard, err := uc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dashboard.Date != "2025-03-14" {
		t.Errorf("expected date 2025-03-14, got %s", dashboard.Date)
	}
	if dashboard.TotalPatients != 4 || dashboard.TodayCount != 2 {
		t.Errorf("expected 4 patients and 2 today, got %d and %d", dashboard.TotalPatients, dashboard.TodayCount)
	}
	if dashboard.PendingCount != 1 || dashboard.CompletedCount != 1 {
		t.Errorf("expected 1 pending and 1 completed, got %d and %d", dashboard.PendingCount, dashboard.CompletedCount)
	}
	if len(dashboard.PendingToday) != 1 || dashboard.PendingToday[0].PatientID != 3 {
		t.Errorf("unexpected pending list %+v", dashboard.PendingToday)
	}
}

func TestAppointmentUsecase_Book(t *testing.T) {
	env := newTestEnv(t)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(entity.DateLayout)
	env.seed(t, seedPatient(7, "Ravi", "9876543210", yesterday, "09:00 AM", entity.PatientStatusCompleted))
	uc := newTestAppointmentUsecase(env, time.Now().UTC())
	ctx := receptionistContext()

	patient, err := uc.Book(ctx, 7, &dto.BookAppointmentRequest{Department: " Cardiology "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patient.Department != "Cardiology" || patient.Status != string(entity.PatientStatusPending) {
		t.Errorf("unexpected booking result %+v", patient)
	}
	if len(patient.VisitHistory) != 2 {
		t.Errorf("expected 2 visits, got %d", len(patient.VisitHistory))
	}

	if _, err := uc.Book(ctx, 7, &dto.BookAppointmentRequest{}); err != ErrAlreadyBookedToday {
		t.Errorf("expected ErrAlreadyBookedToday, got %v", err)
	}
	if _, err := uc.Book(ctx, 8, &dto.BookAppointmentRequest{}); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}

	booked, err := uc.Booked(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked.Total != 1 || booked.Appointments[0].Department != "Cardiology" {
		t.Errorf("expected the booking in the appointments table, got %+v", booked)
	}

	if got := env.audit.actions(); len(got) != 1 || got[0] != entity.AuditActionBookingCreate {
		t.Errorf("expected one booking audit entry, got %v", got)
	}
}

func TestAppointmentUsecase_Status(t *testing.T) {
	env := newTestEnv(t)
	seedPatientList(t, env)
	uc := newTestAppointmentUsecase(env, testNow)
	ctx := receptionistContext()

	patient, err := uc.SetStatus(ctx, 3, &dto.UpdateStatusRequest{Status: "completed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patient.Status != "completed" {
		t.Errorf("expected completed, got %s", patient.Status)
	}
	if patient.VisitHistory[0].Status != "pending" {
		t.Errorf("expected visit history to keep its status, got %s", patient.VisitHistory[0].Status)
	}

	patient, err = uc.ToggleStatus(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patient.Status != "pending" {
		t.Errorf("expected toggle back to pending, got %s", patient.Status)
	}

	if _, err := uc.SetStatus(ctx, 3, &dto.UpdateStatusRequest{Status: "archived"}); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := uc.ToggleStatus(ctx, 42); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestAppointmentUsecase_GetMyAppointments(t *testing.T) {
	env := newTestEnv(t)
	p := seedPatient(5, "Meera", "9811111111", "2025-03-14", "10:00 AM", entity.PatientStatusPending)
	p.VisitHistory = append([]entity.VisitHistoryEntry{{
		ID: "v0", Date: "2025-02-01", Time: "11:00 AM", Department: "ENT", Status: entity.PatientStatusCompleted,
	}}, p.VisitHistory...)
	env.seed(t, p)
	uc := newTestAppointmentUsecase(env, testNow)

	list, err := uc.GetMyAppointments(patientContext(5, "Meera"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 2 || list.Appointments[0].Date != "2025-03-14" || list.Appointments[1].Department != "ENT" {
		t.Errorf("expected newest visit first, got %+v", list.Appointments)
	}

	if _, err := uc.GetMyAppointments(receptionistContext()); err != ErrNotAPatient {
		t.Errorf("expected ErrNotAPatient, got %v", err)
	}
}
