package services

import (
	"testing"
	"time"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/google/uuid"
)

func TestStatusForCenterWithNoSchedules(t *testing.T) {
	svc := NewExamDayService(&mockScheduleStore{})
	svc.Now = func() time.Time { return at(date(2026, time.March, 12), 9, 0) }

	status, err := svc.StatusFor(uuid.New())
	if err != nil {
		t.Fatalf("StatusFor failed: %v", err)
	}

	if status.IsExamDay {
		t.Error("expected IsExamDay=false for a center with no schedules")
	}
	if status.NextExamDate != nil {
		t.Errorf("expected nil NextExamDate, got %s", *status.NextExamDate)
	}
	if len(status.TodaySchedules) != 0 || len(status.UpcomingSchedules) != 0 {
		t.Error("expected empty schedule lists")
	}
}

func TestStatusForActiveExamDay(t *testing.T) {
	today := date(2026, time.March, 12)
	svc := NewExamDayService(&mockScheduleStore{entries: []models.ExamScheduleEntry{
		sitting(today, models.ShiftMorning, models.CategoryCore),
		sitting(today.AddDate(0, 0, 2), models.ShiftMorning, models.CategoryCore),
	}})
	svc.Now = func() time.Time { return at(today, 8, 0) }

	status, err := svc.StatusFor(uuid.New())
	if err != nil {
		t.Fatalf("StatusFor failed: %v", err)
	}

	if !status.IsExamDay {
		t.Error("expected IsExamDay=true")
	}
	if len(status.TodaySchedules) != 1 {
		t.Errorf("expected 1 schedule today, got %d", len(status.TodaySchedules))
	}
	if status.NextExamDate == nil || *status.NextExamDate != "2026-03-14" {
		t.Errorf("expected next exam date 2026-03-14, got %v", status.NextExamDate)
	}
	if len(status.UpcomingSchedules) != 1 {
		t.Errorf("expected 1 upcoming schedule, got %d", len(status.UpcomingSchedules))
	}
}

func TestStatusForUpcomingOnly(t *testing.T) {
	today := date(2026, time.March, 12)
	svc := NewExamDayService(&mockScheduleStore{entries: []models.ExamScheduleEntry{
		sitting(today.AddDate(0, 0, 5), models.ShiftMorning, models.CategoryCore),
	}})
	svc.Now = func() time.Time { return at(today, 8, 0) }

	status, err := svc.StatusFor(uuid.New())
	if err != nil {
		t.Fatalf("StatusFor failed: %v", err)
	}

	if status.IsExamDay {
		t.Error("expected IsExamDay=false")
	}
	if status.NextExamDate == nil || *status.NextExamDate != "2026-03-17" {
		t.Errorf("expected next exam date 2026-03-17, got %v", status.NextExamDate)
	}
}

func TestEntriesForDayGate(t *testing.T) {
	today := date(2026, time.March, 12)
	svc := NewExamDayService(&mockScheduleStore{entries: []models.ExamScheduleEntry{
		sitting(today, models.ShiftMorning, models.CategoryCore),
	}})

	if _, err := svc.EntriesForDay(uuid.New(), today); err != nil {
		t.Errorf("expected exam day to pass the gate, got %v", err)
	}

	_, err := svc.EntriesForDay(uuid.New(), today.AddDate(0, 0, 1))
	te, ok := err.(*TrackerError)
	if !ok || te.Code != CodeNotAnExamDay {
		t.Errorf("expected NOT_AN_EXAM_DAY, got %v", err)
	}
}
