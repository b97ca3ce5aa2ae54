package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyReport records the generated end-of-day custody report PDF for a
// center. One row per (school, exam date); the job skips days it already
// reported on.
type DailyReport struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_report_once" json:"school_id"`
	ExamDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_report_once" json:"exam_date"`

	ReportURL  string `gorm:"type:text;not null" json:"report_url"`
	EventCount int    `gorm:"not null" json:"event_count"`
	IsComplete bool   `gorm:"default:false" json:"is_complete"`

	School School `gorm:"foreignkey:SchoolID" json:"-"`

	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
}
