package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mockScheduleStore struct {
	entries []models.ExamScheduleEntry
}

func (m *mockScheduleStore) ActiveOnDate(schoolID uuid.UUID, date time.Time) ([]models.ExamScheduleEntry, error) {
	var out []models.ExamScheduleEntry
	for _, e := range m.entries {
		if !e.IsActive || !utils.SameDate(e.ExamDate, date) {
			continue
		}
		if e.SchoolID != nil && *e.SchoolID != schoolID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockScheduleStore) NextActiveDate(schoolID uuid.UUID, after time.Time) (*time.Time, error) {
	var next *time.Time
	for _, e := range m.entries {
		if !e.IsActive || !e.ExamDate.After(after) {
			continue
		}
		if e.SchoolID != nil && *e.SchoolID != schoolID {
			continue
		}
		d := utils.DateOnly(e.ExamDate)
		if next == nil || d.Before(*next) {
			next = &d
		}
	}
	return next, nil
}

func (m *mockScheduleStore) UpcomingEntries(schoolID uuid.UUID, from time.Time, limit int) ([]models.ExamScheduleEntry, error) {
	var out []models.ExamScheduleEntry
	for _, e := range m.entries {
		if !e.IsActive || e.ExamDate.Before(from) {
			continue
		}
		if e.SchoolID != nil && *e.SchoolID != schoolID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

type mockEventStore struct {
	events []models.ExamTrackerEvent
}

func (m *mockEventStore) Append(event *models.ExamTrackerEvent) error {
	for _, e := range m.events {
		if e.SchoolID == event.SchoolID && e.EventType == event.EventType &&
			utils.SameDate(e.ExamDate, event.ExamDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	event.ID = uuid.New()
	m.events = append(m.events, *event)
	return nil
}

func (m *mockEventStore) EventsForDay(schoolID uuid.UUID, date time.Time) ([]models.ExamTrackerEvent, error) {
	var out []models.ExamTrackerEvent
	for _, e := range m.events {
		if e.SchoolID == schoolID && utils.SameDate(e.ExamDate, date) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockUploader struct {
	fail    bool
	uploads int
}

func (m *mockUploader) UploadEvidence(_ context.Context, photo io.Reader, publicID string) (string, string, error) {
	if m.fail {
		return "", "", errors.New("storage unreachable")
	}
	if _, err := io.ReadAll(photo); err != nil {
		return "", "", err
	}
	m.uploads++
	return "https://res.example.com/" + publicID + ".jpg", "0b5d7e3f", nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func at(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

func sitting(examDate time.Time, shift, category string) models.ExamScheduleEntry {
	return models.ExamScheduleEntry{
		ID:              uuid.New(),
		ExamDate:        examDate,
		ClassLevel:      models.ClassLevel10,
		Subject:         "Mathematics",
		SubjectCategory: category,
		Shift:           shift,
		ExamStartTime:   "09:00",
		ExamEndTime:     "12:00",
		IsActive:        true,
	}
}
