package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTreasuryArrival   = "TREASURY_ARRIVAL"
	EventCustodianHandover = "CUSTODIAN_HANDOVER"
	EventOpeningMorning    = "OPENING_MORNING"
	EventOpeningAfternoon  = "OPENING_AFTERNOON"
	EventPackingMorning    = "PACKING_MORNING"
	EventPackingAfternoon  = "PACKING_AFTERNOON"
	EventDeliveryMorning   = "DELIVERY_MORNING"
	EventDeliveryAfternoon = "DELIVERY_AFTERNOON"
)

const (
	ShiftGeneral   = "GENERAL"
	ShiftMorning   = "MORNING"
	ShiftAfternoon = "AFTERNOON"
)

// Window keys for the derived time-window table. Treasury and custodian
// windows are shared across shifts; the rest resolve per shift and category.
const (
	WindowTreasuryArrival   = "TREASURY_ARRIVAL"
	WindowCustodianHandover = "CUSTODIAN_HANDOVER"
	WindowOpening           = "OPENING"
	WindowPacking           = "PACKING"
	WindowDelivery          = "DELIVERY"
)

var AllEventTypes = []string{
	EventTreasuryArrival,
	EventCustodianHandover,
	EventOpeningMorning,
	EventOpeningAfternoon,
	EventPackingMorning,
	EventPackingAfternoon,
	EventDeliveryMorning,
	EventDeliveryAfternoon,
}

// Canonical custody order per shift. The first two steps are shared: the
// papers arrive once and change hands once, regardless of sittings.
var (
	morningSequence = []string{
		EventTreasuryArrival,
		EventCustodianHandover,
		EventOpeningMorning,
		EventPackingMorning,
		EventDeliveryMorning,
	}
	afternoonSequence = []string{
		EventTreasuryArrival,
		EventCustodianHandover,
		EventOpeningAfternoon,
		EventPackingAfternoon,
		EventDeliveryAfternoon,
	}
)

func SequenceForShift(shift string) []string {
	if shift == ShiftAfternoon {
		return afternoonSequence
	}
	return morningSequence
}

// SequenceForEvent returns the custody sequence the event belongs to.
func SequenceForEvent(eventType string) []string {
	return SequenceForShift(ShiftForEvent(eventType))
}

func IsValidEventType(eventType string) bool {
	for _, t := range AllEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

func ShiftForEvent(eventType string) string {
	switch eventType {
	case EventTreasuryArrival, EventCustodianHandover:
		return ShiftGeneral
	case EventOpeningAfternoon, EventPackingAfternoon, EventDeliveryAfternoon:
		return ShiftAfternoon
	default:
		return ShiftMorning
	}
}

func WindowKeyForEvent(eventType string) string {
	switch eventType {
	case EventTreasuryArrival:
		return WindowTreasuryArrival
	case EventCustodianHandover:
		return WindowCustodianHandover
	case EventOpeningMorning, EventOpeningAfternoon:
		return WindowOpening
	case EventPackingMorning, EventPackingAfternoon:
		return WindowPacking
	case EventDeliveryMorning, EventDeliveryAfternoon:
		return WindowDelivery
	default:
		return ""
	}
}

// ExamTrackerEvent is one submitted custody step. Rows are append-only; the
// composite unique index is the authoritative duplicate guard, the service
// level check only exists to fail fast with a friendly error.
type ExamTrackerEvent struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tracker_event_once" json:"school_id"`

	EventType string    `gorm:"size:30;not null;uniqueIndex:idx_tracker_event_once" json:"event_type"`
	ExamDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_tracker_event_once" json:"exam_date"`
	Shift     *string   `gorm:"size:10" json:"shift"`

	ImageURL  string `gorm:"type:text;not null" json:"image_url"`
	ImageHash string `gorm:"size:64;not null" json:"image_hash"`

	Latitude   float64   `gorm:"type:numeric(10,7)" json:"latitude"`
	Longitude  float64   `gorm:"type:numeric(10,7)" json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`

	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`

	IsVerified bool       `gorm:"default:false" json:"is_verified"`
	VerifiedBy *uuid.UUID `gorm:"type:uuid" json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`

	User   User   `gorm:"foreignkey:UserID" json:"-"`
	School School `gorm:"foreignkey:SchoolID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
