package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClassLevel10 = "CLASS_10"
	ClassLevel12 = "CLASS_12"
)

const (
	CategoryCore       = "CORE"
	CategoryVocational = "VOCATIONAL"
)

// ExamScheduleEntry is one scheduled exam sitting. Entries are maintained by
// the exam administration; the tracker only ever reads them. A null SchoolID
// means the sitting applies board-wide to every active center.
type ExamScheduleEntry struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SchoolID *uuid.UUID `gorm:"type:uuid;index" json:"school_id"`

	ExamDate        time.Time `gorm:"type:date;not null;index" json:"exam_date"`
	ClassLevel      string    `gorm:"size:10;not null" json:"class_level"`
	Subject         string    `gorm:"size:100;not null" json:"subject"`
	SubjectCategory string    `gorm:"size:20;not null;default:'CORE'" json:"subject_category"`
	Shift           string    `gorm:"size:10;not null;default:'MORNING'" json:"shift"`

	ExamStartTime string `gorm:"size:5;not null" json:"exam_start_time"`
	ExamEndTime   string `gorm:"size:5;not null" json:"exam_end_time"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
