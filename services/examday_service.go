package services

import (
	"time"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
)

const upcomingScheduleLimit = 10

// ExamDayStatus is what the app renders before anything else. A center with
// no schedule at all gets IsExamDay=false and a nil NextExamDate, which the
// UI shows as a neutral "no upcoming exams" state.
type ExamDayStatus struct {
	IsExamDay         bool                       `json:"is_exam_day"`
	NextExamDate      *string                    `json:"next_exam_date"`
	TodaySchedules    []models.ExamScheduleEntry `json:"today_schedules"`
	UpcomingSchedules []models.ExamScheduleEntry `json:"upcoming_schedules"`
}

type ExamDayService struct {
	Schedules ScheduleStore
	Now       func() time.Time
}

func NewExamDayService(schedules ScheduleStore) *ExamDayService {
	return &ExamDayService{Schedules: schedules, Now: time.Now}
}

func (s *ExamDayService) StatusFor(schoolID uuid.UUID) (*ExamDayStatus, error) {
	today := utils.DateOnly(s.Now())

	todaySchedules, err := s.Schedules.ActiveOnDate(schoolID, today)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.Schedules.UpcomingEntries(schoolID, today.AddDate(0, 0, 1), upcomingScheduleLimit)
	if err != nil {
		return nil, err
	}

	status := &ExamDayStatus{
		IsExamDay:         len(todaySchedules) > 0,
		TodaySchedules:    todaySchedules,
		UpcomingSchedules: upcoming,
	}

	next, err := s.Schedules.NextActiveDate(schoolID, today)
	if err != nil {
		return nil, err
	}
	if next != nil {
		formatted := utils.FormatDate(*next)
		status.NextExamDate = &formatted
	}

	return status, nil
}

// EntriesForDay is the exam-day gate every tracker operation runs through:
// it returns the day's active sittings, or NotAnExamDayError when there are
// none.
func (s *ExamDayService) EntriesForDay(schoolID uuid.UUID, date time.Time) ([]models.ExamScheduleEntry, error) {
	entries, err := s.Schedules.ActiveOnDate(schoolID, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, NewNotAnExamDayError(date)
	}
	return entries, nil
}
