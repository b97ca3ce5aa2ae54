package database

import (
	"errors"
	"time"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScheduleStore reads exam sittings for a center. Entries with a null
// school_id are board-wide and apply to every center.
type GormScheduleStore struct {
	DB *gorm.DB
}

func NewScheduleStore(db *gorm.DB) *GormScheduleStore {
	return &GormScheduleStore{DB: db}
}

func (s *GormScheduleStore) ActiveOnDate(schoolID uuid.UUID, date time.Time) ([]models.ExamScheduleEntry, error) {
	var entries []models.ExamScheduleEntry
	err := s.DB.
		Where("exam_date = ? AND is_active = ? AND (school_id = ? OR school_id IS NULL)",
			utils.FormatDate(date), true, schoolID).
		Order("exam_start_time asc").
		Find(&entries).Error
	return entries, err
}

func (s *GormScheduleStore) NextActiveDate(schoolID uuid.UUID, after time.Time) (*time.Time, error) {
	var entry models.ExamScheduleEntry
	err := s.DB.
		Where("exam_date > ? AND is_active = ? AND (school_id = ? OR school_id IS NULL)",
			utils.FormatDate(after), true, schoolID).
		Order("exam_date asc").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	next := utils.DateOnly(entry.ExamDate)
	return &next, nil
}

func (s *GormScheduleStore) UpcomingEntries(schoolID uuid.UUID, from time.Time, limit int) ([]models.ExamScheduleEntry, error) {
	var entries []models.ExamScheduleEntry
	err := s.DB.
		Where("exam_date >= ? AND is_active = ? AND (school_id = ? OR school_id IS NULL)",
			utils.FormatDate(from), true, schoolID).
		Order("exam_date asc, exam_start_time asc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// GormEventStore is the custody ledger. Append relies on the composite
// unique index; there is deliberately no update or delete here.
type GormEventStore struct {
	DB *gorm.DB
}

func NewEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{DB: db}
}

func (s *GormEventStore) Append(event *models.ExamTrackerEvent) error {
	return s.DB.Create(event).Error
}

func (s *GormEventStore) EventsForDay(schoolID uuid.UUID, date time.Time) ([]models.ExamTrackerEvent, error) {
	var events []models.ExamTrackerEvent
	err := s.DB.
		Where("school_id = ? AND exam_date = ?", schoolID, utils.FormatDate(date)).
		Order("submitted_at asc").
		Find(&events).Error
	return events, err
}
