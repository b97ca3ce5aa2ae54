package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleStore reads the exam administration's schedule. The tracker never
// writes through it.
type ScheduleStore interface {
	ActiveOnDate(schoolID uuid.UUID, date time.Time) ([]models.ExamScheduleEntry, error)
	NextActiveDate(schoolID uuid.UUID, after time.Time) (*time.Time, error)
	UpcomingEntries(schoolID uuid.UUID, from time.Time, limit int) ([]models.ExamScheduleEntry, error)
}

// EventStore is the append-only custody ledger. Append must surface
// gorm.ErrDuplicatedKey when the (user, school, date, type) row already
// exists; the unique index is the authoritative duplicate guard.
type EventStore interface {
	Append(event *models.ExamTrackerEvent) error
	EventsForDay(schoolID uuid.UUID, date time.Time) ([]models.ExamTrackerEvent, error)
}

// ImageUploader stores the evidence photo and returns a stable URL plus a
// content hash.
type ImageUploader interface {
	UploadEvidence(ctx context.Context, photo io.Reader, publicID string) (url string, hash string, err error)
}

type SubmissionInput struct {
	UserID       uuid.UUID
	UserRole     string
	UserSchoolID *uuid.UUID

	SchoolID  uuid.UUID
	EventType string
	ExamDate  time.Time
	Shift     *string

	Latitude   float64
	Longitude  float64
	CapturedAt time.Time

	Photo io.Reader
}

type EventDetail struct {
	Completed   bool       `json:"completed"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	IsVerified  bool       `json:"is_verified"`
}

// ExamTrackerSummary is recomputed from the ledger on every query.
type ExamTrackerSummary struct {
	SchoolID        uuid.UUID              `json:"school_id"`
	ExamDate        string                 `json:"exam_date"`
	CompletedEvents []string               `json:"completed_events"`
	PendingEvents   []string               `json:"pending_events"`
	EventDetails    map[string]EventDetail `json:"event_details"`
}

// TrackerService owns the admission guard and the submission pipeline.
// Now is injectable so window membership is testable with a fixed clock;
// production wiring leaves it at time.Now.
type TrackerService struct {
	Events    EventStore
	Schedules ScheduleStore
	Windows   *TimeWindowService
	Uploader  ImageUploader
	Now       func() time.Time

	// Publish, when set, pushes each accepted event to the live feed.
	Publish func(*models.ExamTrackerEvent)
}

func NewTrackerService(events EventStore, schedules ScheduleStore, windows *TimeWindowService, uploader ImageUploader) *TrackerService {
	return &TrackerService{
		Events:    events,
		Schedules: schedules,
		Windows:   windows,
		Uploader:  uploader,
		Now:       time.Now,
	}
}

// Submit runs the five admission checks, uploads the evidence photo, and
// appends the event. The photo is uploaded before the ledger insert so a
// failed upload can never leave a row without its evidence; a concurrent
// duplicate is caught by the ledger's unique index even if it slips past the
// fast-fail check.
func (s *TrackerService) Submit(ctx context.Context, in SubmissionInput) (*models.ExamTrackerEvent, error) {
	if !models.IsValidEventType(in.EventType) {
		return nil, fmt.Errorf("unknown event type %q", in.EventType)
	}

	// 1. Authorization: the submitter must be the designated superintendent
	// of the target school.
	if in.UserRole != models.RoleSuperintendent || in.UserSchoolID == nil || *in.UserSchoolID != in.SchoolID {
		return nil, NewNotAuthorizedError()
	}

	// 2. Exam-day gate.
	entries, err := s.Schedules.ActiveOnDate(in.SchoolID, in.ExamDate)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, NewNotAnExamDayError(in.ExamDate)
	}

	recorded, err := s.Events.EventsForDay(in.SchoolID, in.ExamDate)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(recorded))
	for _, e := range recorded {
		completed[e.EventType] = true
	}

	// 3. Sequential order: every predecessor in the shift's canonical
	// sequence must already be on the ledger.
	for _, step := range models.SequenceForEvent(in.EventType) {
		if step == in.EventType {
			break
		}
		if !completed[step] {
			return nil, NewStepOutOfOrderError(step)
		}
	}

	// 4. Time-window membership on server time.
	if !s.Windows.BypassTimeCheck {
		window, err := s.Windows.WindowForEvent(in.EventType, entries)
		if err != nil {
			return nil, err
		}
		if !window.Contains(s.Now()) {
			return nil, NewOutsideTimeWindowError(window)
		}
	}

	// 5. Duplicate fast-fail. Advisory only; the unique index decides.
	if completed[in.EventType] {
		return nil, NewDuplicateSubmissionError(in.EventType)
	}

	publicID := fmt.Sprintf("%s_%s_%s", in.SchoolID, utils.FormatDate(in.ExamDate), in.EventType)
	imageURL, imageHash, err := s.Uploader.UploadEvidence(ctx, in.Photo, publicID)
	if err != nil {
		return nil, NewUploadFailedError(err)
	}

	shift := in.Shift
	if shift == nil {
		inferred := models.ShiftForEvent(in.EventType)
		shift = &inferred
	}

	event := &models.ExamTrackerEvent{
		UserID:      in.UserID,
		SchoolID:    in.SchoolID,
		EventType:   in.EventType,
		ExamDate:    utils.DateOnly(in.ExamDate),
		Shift:       shift,
		ImageURL:    imageURL,
		ImageHash:   imageHash,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CapturedAt:  in.CapturedAt,
		SubmittedAt: s.Now(),
	}

	if err := s.Events.Append(event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewDuplicateSubmissionError(in.EventType)
		}
		return nil, err
	}

	if s.Publish != nil {
		s.Publish(event)
	}

	return event, nil
}

// Summary classifies all eight canonical event types against the day's
// ledger. Refuses dates that are not exam days for the center.
func (s *TrackerService) Summary(schoolID uuid.UUID, date time.Time) (*ExamTrackerSummary, error) {
	entries, err := s.Schedules.ActiveOnDate(schoolID, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, NewNotAnExamDayError(date)
	}

	events, err := s.Events.EventsForDay(schoolID, date)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]models.ExamTrackerEvent, len(events))
	for _, e := range events {
		byType[e.EventType] = e
	}

	summary := &ExamTrackerSummary{
		SchoolID:        schoolID,
		ExamDate:        utils.FormatDate(date),
		CompletedEvents: []string{},
		PendingEvents:   []string{},
		EventDetails:    make(map[string]EventDetail, len(models.AllEventTypes)),
	}

	for _, eventType := range models.AllEventTypes {
		if e, ok := byType[eventType]; ok {
			submittedAt := e.SubmittedAt
			imageURL := e.ImageURL
			summary.CompletedEvents = append(summary.CompletedEvents, eventType)
			summary.EventDetails[eventType] = EventDetail{
				Completed:   true,
				SubmittedAt: &submittedAt,
				ImageURL:    &imageURL,
				IsVerified:  e.IsVerified,
			}
			continue
		}
		summary.PendingEvents = append(summary.PendingEvents, eventType)
		summary.EventDetails[eventType] = EventDetail{Completed: false}
	}

	return summary, nil
}
