package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
)

type trackerFixture struct {
	svc      *TrackerService
	events   *mockEventStore
	uploader *mockUploader
	schoolID uuid.UUID
	userID   uuid.UUID
	day      time.Time
	now      time.Time
}

func newTrackerFixture(t *testing.T, entries ...models.ExamScheduleEntry) *trackerFixture {
	t.Helper()

	f := &trackerFixture{
		events:   &mockEventStore{},
		uploader: &mockUploader{},
		schoolID: uuid.New(),
		userID:   uuid.New(),
		day:      date(2026, time.March, 12),
	}
	f.now = at(f.day, 8, 0)

	schedules := &mockScheduleStore{entries: entries}
	windows := &TimeWindowService{Config: DefaultWindowConfig(), Schedules: schedules}
	f.svc = NewTrackerService(f.events, schedules, windows, f.uploader)
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func coreMorningFixture(t *testing.T) *trackerFixture {
	day := date(2026, time.March, 12)
	return newTrackerFixture(t, sitting(day, models.ShiftMorning, models.CategoryCore))
}

func (f *trackerFixture) input(eventType string) SubmissionInput {
	role := models.RoleSuperintendent
	return SubmissionInput{
		UserID:       f.userID,
		UserRole:     role,
		UserSchoolID: &f.schoolID,
		SchoolID:     f.schoolID,
		EventType:    eventType,
		ExamDate:     f.day,
		Latitude:     27.700769,
		Longitude:    85.30014,
		CapturedAt:   f.now,
		Photo:        strings.NewReader("jpeg-bytes"),
	}
}

func (f *trackerFixture) submitAt(t *testing.T, eventType string, hour, minute int) (*models.ExamTrackerEvent, error) {
	t.Helper()
	f.now = at(f.day, hour, minute)
	return f.svc.Submit(context.Background(), f.input(eventType))
}

func (f *trackerFixture) mustSubmitAt(t *testing.T, eventType string, hour, minute int) *models.ExamTrackerEvent {
	t.Helper()
	event, err := f.submitAt(t, eventType, hour, minute)
	if err != nil {
		t.Fatalf("submit %s at %02d:%02d failed: %v", eventType, hour, minute, err)
	}
	return event
}

func trackerCode(t *testing.T, err error) string {
	t.Helper()
	var te *TrackerError
	if !errors.As(err, &te) {
		t.Fatalf("expected TrackerError, got %v", err)
	}
	return te.Code
}

func TestSubmitFullMorningSequence(t *testing.T) {
	f := coreMorningFixture(t)

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	f.mustSubmitAt(t, models.EventCustodianHandover, 8, 0)
	f.mustSubmitAt(t, models.EventOpeningMorning, 8, 45)
	f.mustSubmitAt(t, models.EventPackingMorning, 12, 30)
	event := f.mustSubmitAt(t, models.EventDeliveryMorning, 13, 15)

	if len(f.events.events) != 5 {
		t.Fatalf("expected 5 ledger rows, got %d", len(f.events.events))
	}
	if event.ImageURL == "" || event.ImageHash == "" {
		t.Error("accepted event must carry its evidence URL and hash")
	}
	if event.Shift == nil || *event.Shift != models.ShiftMorning {
		t.Errorf("delivery shift should be MORNING, got %v", event.Shift)
	}
	if !utils.SameDate(event.SubmittedAt, f.day) || event.SubmittedAt.Hour() != 13 {
		t.Errorf("SubmittedAt should be server time 13:15, got %v", event.SubmittedAt)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	f := coreMorningFixture(t)

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	_, err := f.submitAt(t, models.EventTreasuryArrival, 8, 0)

	if code := trackerCode(t, err); code != CodeDuplicateSubmission {
		t.Errorf("expected DUPLICATE_SUBMISSION, got %s", code)
	}
	if len(f.events.events) != 1 {
		t.Errorf("expected exactly 1 stored row, got %d", len(f.events.events))
	}
}

// racingEventStore hides existing rows from the fast-fail read so the
// storage-layer uniqueness constraint is the only guard left, mimicking two
// near-simultaneous submissions.
type racingEventStore struct {
	mockEventStore
}

func (s *racingEventStore) EventsForDay(uuid.UUID, time.Time) ([]models.ExamTrackerEvent, error) {
	return nil, nil
}

func TestSubmitConcurrentDuplicateCaughtByStore(t *testing.T) {
	day := date(2026, time.March, 12)
	f := newTrackerFixture(t, sitting(day, models.ShiftMorning, models.CategoryCore))
	racing := &racingEventStore{}
	f.svc.Events = racing

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	_, err := f.submitAt(t, models.EventTreasuryArrival, 7, 46)

	if code := trackerCode(t, err); code != CodeDuplicateSubmission {
		t.Errorf("expected DUPLICATE_SUBMISSION from the unique index, got %s", code)
	}
	if len(racing.events) != 1 {
		t.Errorf("expected exactly 1 stored row, got %d", len(racing.events))
	}
}

func TestSubmitOutOfOrderNamesMissingPredecessor(t *testing.T) {
	f := coreMorningFixture(t)

	_, err := f.submitAt(t, models.EventCustodianHandover, 8, 0)
	var te *TrackerError
	if !errors.As(err, &te) || te.Code != CodeStepOutOfOrder {
		t.Fatalf("expected STEP_OUT_OF_ORDER, got %v", err)
	}
	if te.MissingStep != models.EventTreasuryArrival {
		t.Errorf("expected missing step TREASURY_ARRIVAL, got %s", te.MissingStep)
	}

	f.mustSubmitAt(t, models.EventTreasuryArrival, 8, 5)
	f.mustSubmitAt(t, models.EventCustodianHandover, 8, 10)

	_, err = f.submitAt(t, models.EventPackingMorning, 12, 30)
	if !errors.As(err, &te) || te.Code != CodeStepOutOfOrder {
		t.Fatalf("expected STEP_OUT_OF_ORDER, got %v", err)
	}
	if te.MissingStep != models.EventOpeningMorning {
		t.Errorf("expected missing step OPENING_MORNING, got %s", te.MissingStep)
	}
}

func TestCorePackingRejectedBeforeNoon(t *testing.T) {
	f := coreMorningFixture(t)

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	f.mustSubmitAt(t, models.EventCustodianHandover, 8, 0)
	f.mustSubmitAt(t, models.EventOpeningMorning, 8, 45)

	_, err := f.submitAt(t, models.EventPackingMorning, 11, 30)
	var te *TrackerError
	if !errors.As(err, &te) || te.Code != CodeOutsideTimeWindow {
		t.Fatalf("expected OUTSIDE_TIME_WINDOW, got %v", err)
	}
	if te.Window == "" {
		t.Error("rejection must name the window so the app can explain when to retry")
	}

	if _, err := f.submitAt(t, models.EventPackingMorning, 12, 30); err != nil {
		t.Errorf("identical submission at 12:30 should succeed, got %v", err)
	}
}

func TestVocationalPackingAcceptedAt1130(t *testing.T) {
	day := date(2026, time.March, 12)
	f := newTrackerFixture(t, sitting(day, models.ShiftMorning, models.CategoryVocational))

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	f.mustSubmitAt(t, models.EventCustodianHandover, 8, 0)
	f.mustSubmitAt(t, models.EventOpeningMorning, 8, 45)

	if _, err := f.submitAt(t, models.EventPackingMorning, 11, 30); err != nil {
		t.Errorf("vocational packing at 11:30 should succeed, got %v", err)
	}
}

func TestBypassAdmitsOutsideWindow(t *testing.T) {
	f := coreMorningFixture(t)
	f.svc.Windows.BypassTimeCheck = true

	if _, err := f.submitAt(t, models.EventTreasuryArrival, 3, 0); err != nil {
		t.Errorf("bypass should admit a 03:00 submission, got %v", err)
	}
}

func TestSubmitNotAuthorized(t *testing.T) {
	f := coreMorningFixture(t)

	in := f.input(models.EventTreasuryArrival)
	in.UserRole = models.RoleAdmin
	_, err := f.svc.Submit(context.Background(), in)
	if code := trackerCode(t, err); code != CodeNotAuthorized {
		t.Errorf("admin submitter: expected NOT_AUTHORIZED, got %s", code)
	}

	otherSchool := uuid.New()
	in = f.input(models.EventTreasuryArrival)
	in.UserSchoolID = &otherSchool
	_, err = f.svc.Submit(context.Background(), in)
	if code := trackerCode(t, err); code != CodeNotAuthorized {
		t.Errorf("foreign superintendent: expected NOT_AUTHORIZED, got %s", code)
	}
}

func TestSubmitOnNonExamDay(t *testing.T) {
	f := coreMorningFixture(t)

	in := f.input(models.EventTreasuryArrival)
	in.ExamDate = f.day.AddDate(0, 0, 1)
	_, err := f.svc.Submit(context.Background(), in)

	if code := trackerCode(t, err); code != CodeNotAnExamDay {
		t.Errorf("expected NOT_AN_EXAM_DAY regardless of window math, got %s", code)
	}
	if f.uploader.uploads != 0 {
		t.Error("no upload may happen for a rejected submission")
	}
}

func TestUploadFailureLeavesStepPending(t *testing.T) {
	f := coreMorningFixture(t)
	f.uploader.fail = true

	_, err := f.submitAt(t, models.EventTreasuryArrival, 7, 45)
	if code := trackerCode(t, err); code != CodeUploadFailed {
		t.Errorf("expected UPLOAD_FAILED, got %s", code)
	}
	if len(f.events.events) != 0 {
		t.Fatalf("no ledger row may exist without its evidence photo, found %d", len(f.events.events))
	}

	summary, err := f.svc.Summary(f.schoolID, f.day)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	detail := summary.EventDetails[models.EventTreasuryArrival]
	if detail.Completed {
		t.Error("step must still be pending after a failed upload")
	}
}

func TestSummaryAfterThreeSteps(t *testing.T) {
	f := coreMorningFixture(t)

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	f.mustSubmitAt(t, models.EventCustodianHandover, 8, 0)
	f.mustSubmitAt(t, models.EventOpeningMorning, 8, 45)

	summary, err := f.svc.Summary(f.schoolID, f.day)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	wantCompleted := []string{
		models.EventTreasuryArrival,
		models.EventCustodianHandover,
		models.EventOpeningMorning,
	}
	if len(summary.CompletedEvents) != len(wantCompleted) {
		t.Fatalf("expected %d completed events, got %d", len(wantCompleted), len(summary.CompletedEvents))
	}
	for i, want := range wantCompleted {
		if summary.CompletedEvents[i] != want {
			t.Errorf("completed[%d] = %s, want %s", i, summary.CompletedEvents[i], want)
		}
	}
	if len(summary.PendingEvents) != len(models.AllEventTypes)-3 {
		t.Errorf("expected %d pending events, got %d", len(models.AllEventTypes)-3, len(summary.PendingEvents))
	}

	for _, eventType := range wantCompleted {
		detail := summary.EventDetails[eventType]
		if !detail.Completed || detail.SubmittedAt == nil || detail.ImageURL == nil {
			t.Errorf("completed %s must carry submitted_at and image_url", eventType)
		}
	}
	for _, eventType := range summary.PendingEvents {
		detail := summary.EventDetails[eventType]
		if detail.Completed || detail.SubmittedAt != nil || detail.ImageURL != nil {
			t.Errorf("pending %s must not carry submission details", eventType)
		}
	}
}

func TestSummaryOnNonExamDay(t *testing.T) {
	f := coreMorningFixture(t)

	_, err := f.svc.Summary(f.schoolID, f.day.AddDate(0, 0, 1))
	if code := trackerCode(t, err); code != CodeNotAnExamDay {
		t.Errorf("expected NOT_AN_EXAM_DAY, got %s", code)
	}
}

func TestSubmitPublishesToFeed(t *testing.T) {
	f := coreMorningFixture(t)

	var published []*models.ExamTrackerEvent
	f.svc.Publish = func(e *models.ExamTrackerEvent) { published = append(published, e) }

	f.mustSubmitAt(t, models.EventTreasuryArrival, 7, 45)
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	if published[0].EventType != models.EventTreasuryArrival {
		t.Errorf("published wrong event type %s", published[0].EventType)
	}

	_, _ = f.submitAt(t, models.EventTreasuryArrival, 8, 0)
	if len(published) != 1 {
		t.Error("rejected submissions must not be published")
	}
}
