package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	config "github.com/bibekrb/exam_custody_tracker/configs"
	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
)

// TimeWindow is a derived [start, end] interval at minute granularity,
// inclusive on both ends. Never persisted.
type TimeWindow struct {
	StartHour   int    `json:"start_hour"`
	StartMinute int    `json:"start_minute"`
	EndHour     int    `json:"end_hour"`
	EndMinute   int    `json:"end_minute"`
	Label       string `json:"label"`
}

func (w TimeWindow) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.StartHour*60+w.StartMinute && m <= w.EndHour*60+w.EndMinute
}

func (w TimeWindow) Bounds() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.StartHour, w.StartMinute, w.EndHour, w.EndMinute)
}

func makeWindow(name string, startHour, startMinute, endHour, endMinute int) TimeWindow {
	return TimeWindow{
		StartHour:   startHour,
		StartMinute: startMinute,
		EndHour:     endHour,
		EndMinute:   endMinute,
		Label:       fmt.Sprintf("%s (%02d:%02d - %02d:%02d)", name, startHour, startMinute, endHour, endMinute),
	}
}

// WindowConfig is the tunable table of custody windows for an exam cycle.
// Packing and delivery open earlier for vocational sittings.
type WindowConfig struct {
	TreasuryArrival    TimeWindow
	CustodianHandover  TimeWindow
	OpeningMorning     TimeWindow
	OpeningAfternoon   TimeWindow
	PackingCore        TimeWindow
	PackingVocational  TimeWindow
	DeliveryCore       TimeWindow
	DeliveryVocational TimeWindow
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		TreasuryArrival:    makeWindow("Treasury Arrival", 7, 30, 8, 40),
		CustodianHandover:  makeWindow("Custodian Handover", 7, 30, 8, 40),
		OpeningMorning:     makeWindow("Paper Opening", 8, 30, 9, 0),
		OpeningAfternoon:   makeWindow("Paper Opening", 12, 30, 13, 0),
		PackingCore:        makeWindow("Answer Sheet Packing", 12, 0, 14, 0),
		PackingVocational:  makeWindow("Answer Sheet Packing", 11, 0, 14, 0),
		DeliveryCore:       makeWindow("Delivery", 12, 0, 14, 0),
		DeliveryVocational: makeWindow("Delivery", 11, 0, 14, 0),
	}
}

// LoadWindowConfig applies per-cycle overrides of the form
// TRACKER_WINDOW_<KEY>=HH:MM-HH:MM on top of the defaults.
func LoadWindowConfig() WindowConfig {
	c := DefaultWindowConfig()
	overrideWindow(&c.TreasuryArrival, "TRACKER_WINDOW_TREASURY_ARRIVAL", "Treasury Arrival")
	overrideWindow(&c.CustodianHandover, "TRACKER_WINDOW_CUSTODIAN_HANDOVER", "Custodian Handover")
	overrideWindow(&c.OpeningMorning, "TRACKER_WINDOW_OPENING_MORNING", "Paper Opening")
	overrideWindow(&c.OpeningAfternoon, "TRACKER_WINDOW_OPENING_AFTERNOON", "Paper Opening")
	overrideWindow(&c.PackingCore, "TRACKER_WINDOW_PACKING_CORE", "Answer Sheet Packing")
	overrideWindow(&c.PackingVocational, "TRACKER_WINDOW_PACKING_VOCATIONAL", "Answer Sheet Packing")
	overrideWindow(&c.DeliveryCore, "TRACKER_WINDOW_DELIVERY_CORE", "Delivery")
	overrideWindow(&c.DeliveryVocational, "TRACKER_WINDOW_DELIVERY_VOCATIONAL", "Delivery")
	return c
}

func overrideWindow(w *TimeWindow, key, name string) {
	spec := config.Config(key)
	if spec == "" {
		return
	}
	parsed, err := parseWindowSpec(name, spec)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, spec, err)
		return
	}
	*w = parsed
}

func parseWindowSpec(name, spec string) (TimeWindow, error) {
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return TimeWindow{}, fmt.Errorf("expected HH:MM-HH:MM")
	}
	start, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeWindow{}, err
	}
	if end.Before(start) {
		return TimeWindow{}, fmt.Errorf("window ends before it starts")
	}
	return makeWindow(name, start.Hour(), start.Minute(), end.Hour(), end.Minute()), nil
}

// TrackerTimeWindows is the full derived window table for one exam day,
// served to the app so its pre-checks stay in sync with the server's table.
type TrackerTimeWindows struct {
	ExamDate        string                     `json:"exam_date"`
	SubjectCategory string                     `json:"subject_category"`
	Schedules       []models.ExamScheduleEntry `json:"schedules"`
	Windows         map[string]TimeWindow      `json:"time_windows"`
	BypassTimeCheck bool                       `json:"bypass_time_check"`
}

type TimeWindowService struct {
	Config    WindowConfig
	Schedules ScheduleStore

	// Operator override: admits any submission regardless of clock time.
	// Server-side only; the app never infers it.
	BypassTimeCheck bool
}

func NewTimeWindowService(schedules ScheduleStore) *TimeWindowService {
	return &TimeWindowService{
		Config:          LoadWindowConfig(),
		Schedules:       schedules,
		BypassTimeCheck: config.Config("TRACKER_BYPASS_TIME_CHECK") == "true",
	}
}

// WindowsForDate derives the day's window table for a center. Fails with
// NoScheduleError when the date resolves to no active sitting.
func (s *TimeWindowService) WindowsForDate(schoolID uuid.UUID, date time.Time) (*TrackerTimeWindows, error) {
	entries, err := s.Schedules.ActiveOnDate(schoolID, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, NewNoScheduleError(date)
	}

	shift := dominantShift(entries)
	category := CategoryForShift(entries, shift)

	windows := map[string]TimeWindow{
		models.WindowTreasuryArrival:   s.Config.TreasuryArrival,
		models.WindowCustodianHandover: s.Config.CustodianHandover,
		models.WindowOpening:           s.Config.OpeningMorning,
		models.WindowPacking:           s.Config.PackingCore,
		models.WindowDelivery:          s.Config.DeliveryCore,
	}
	if shift == models.ShiftAfternoon {
		windows[models.WindowOpening] = s.Config.OpeningAfternoon
	}
	if category == models.CategoryVocational {
		windows[models.WindowPacking] = s.Config.PackingVocational
		windows[models.WindowDelivery] = s.Config.DeliveryVocational
	}

	return &TrackerTimeWindows{
		ExamDate:        utils.FormatDate(date),
		SubjectCategory: category,
		Schedules:       entries,
		Windows:         windows,
		BypassTimeCheck: s.BypassTimeCheck,
	}, nil
}

// WindowForEvent resolves the admission window for a single event type given
// the day's schedule entries.
func (s *TimeWindowService) WindowForEvent(eventType string, entries []models.ExamScheduleEntry) (TimeWindow, error) {
	shift := models.ShiftForEvent(eventType)
	category := CategoryForShift(entries, shift)

	switch models.WindowKeyForEvent(eventType) {
	case models.WindowTreasuryArrival:
		return s.Config.TreasuryArrival, nil
	case models.WindowCustodianHandover:
		return s.Config.CustodianHandover, nil
	case models.WindowOpening:
		if shift == models.ShiftAfternoon {
			return s.Config.OpeningAfternoon, nil
		}
		return s.Config.OpeningMorning, nil
	case models.WindowPacking:
		if category == models.CategoryVocational {
			return s.Config.PackingVocational, nil
		}
		return s.Config.PackingCore, nil
	case models.WindowDelivery:
		if category == models.CategoryVocational {
			return s.Config.DeliveryVocational, nil
		}
		return s.Config.DeliveryCore, nil
	}
	return TimeWindow{}, fmt.Errorf("unknown event type %q", eventType)
}

// CategoryForShift picks the subject category governing packing and delivery
// for a shift. The entry scheduled for that shift decides; when entries for
// the shift disagree, or none matches, the later CORE opening wins.
func CategoryForShift(entries []models.ExamScheduleEntry, shift string) string {
	category := ""
	for _, e := range entries {
		if shift != models.ShiftGeneral && e.Shift != shift {
			continue
		}
		if category == "" {
			category = e.SubjectCategory
		} else if category != e.SubjectCategory {
			return models.CategoryCore
		}
	}
	if category == "" {
		return models.CategoryCore
	}
	return category
}

// dominantShift decides which shift's opening slot the day-level window table
// shows. Morning wins whenever a morning sitting exists.
func dominantShift(entries []models.ExamScheduleEntry) string {
	shift := ""
	for _, e := range entries {
		if e.Shift == models.ShiftMorning {
			return models.ShiftMorning
		}
		shift = e.Shift
	}
	if shift == "" {
		return models.ShiftMorning
	}
	return shift
}
