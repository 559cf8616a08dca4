package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Text:     "Write weekly summary",
		Priority: PriorityHigh,
		Tags:     []string{"writing"},
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsBadPriority(t *testing.T) {
	task := Task{ID: "task-1", Text: "x", Priority: Priority("urgent")}
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestRoutineTaskValidateRejectsBadWeekday(t *testing.T) {
	r := RoutineTask{ID: "r-1", Text: "Stretch", RecurringDays: []int{1, 7}}
	err := r.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestRoutineTaskRecursOn(t *testing.T) {
	r := RoutineTask{ID: "r-1", Text: "Stretch", RecurringDays: []int{1, 3, 5}}
	if !r.RecursOn(time.Monday) {
		t.Fatal("expected routine to recur on Monday")
	}
	if r.RecursOn(time.Sunday) {
		t.Fatal("expected routine not to recur on Sunday")
	}
}

func TestExportJobValidate(t *testing.T) {
	job := ExportJob{ID: "exp-1", Format: ExportFormatJSON, Status: ExportStatusPending, CreatedAt: 1700000000}
	if err := job.Validate(); err != nil {
		t.Fatalf("expected valid job, got error: %v", err)
	}
	job.Status = ExportStatus("done")
	if err := job.Validate(); !errors.Is(err, ErrInvalidExportStatus) {
		t.Fatalf("expected ErrInvalidExportStatus, got %v", err)
	}
}

func TestExportStatusTerminal(t *testing.T) {
	if ExportStatusPending.Terminal() || ExportStatusProcessing.Terminal() {
		t.Fatal("pending/processing must not be terminal")
	}
	if !ExportStatusComplete.Terminal() || !ExportStatusFailed.Terminal() {
		t.Fatal("complete/failed must be terminal")
	}
}

func TestDateString(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 59, 0, 0, time.UTC)
	if got := DateString(at); got != "2026-03-07" {
		t.Fatalf("expected 2026-03-07, got %q", got)
	}
}

func TestNewAppDataDefaults(t *testing.T) {
	data := NewAppData("2026-03-07")
	if data.Plan.Date != "2026-03-07" {
		t.Fatalf("expected plan date 2026-03-07, got %q", data.Plan.Date)
	}
	if len(data.Plan.Tasks) != 0 {
		t.Fatalf("expected empty plan, got %d tasks", len(data.Plan.Tasks))
	}
	if data.Theme != ThemeDark {
		t.Fatalf("expected dark theme default, got %q", data.Theme)
	}
	if len(data.DashboardLayout.Left) == 0 || len(data.DashboardLayout.Right) == 0 {
		t.Fatal("expected default dashboard layout columns to be populated")
	}
	if data.ActiveTask != nil {
		t.Fatal("expected no active task by default")
	}
}
