package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/bibekrb/exam_custody_tracker/database"
	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/notifications"
	"github.com/bibekrb/exam_custody_tracker/services"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/google/uuid"
)

var (
	trackerService *services.TrackerService
	windowService  *services.TimeWindowService
	reportService  *services.ReportService
)

// Init wires the services the cron jobs run against; called once from main.
func Init(tracker *services.TrackerService, windows *services.TimeWindowService, reports *services.ReportService) {
	trackerService = tracker
	windowService = windows
	reportService = reports
}

// examDaySchools returns every active center that has a sitting today,
// either its own entry or a board-wide one.
func examDaySchools(today time.Time) ([]models.School, error) {
	var boardWide int64
	err := database.DB.Model(&models.ExamScheduleEntry{}).
		Where("exam_date = ? AND is_active = ? AND school_id IS NULL", utils.FormatDate(today), true).
		Count(&boardWide).Error
	if err != nil {
		return nil, err
	}

	var schools []models.School
	if boardWide > 0 {
		err = database.DB.Where("is_active = ?", true).Find(&schools).Error
		return schools, err
	}

	err = database.DB.
		Joins("JOIN exam_schedule_entries ON exam_schedule_entries.school_id = schools.id").
		Where("exam_schedule_entries.exam_date = ? AND exam_schedule_entries.is_active = ? AND schools.is_active = ?",
			utils.FormatDate(today), true, true).
		Distinct("schools.*").
		Find(&schools).Error
	return schools, err
}

func superintendentFor(schoolID uuid.UUID) (*models.User, error) {
	var user models.User
	err := database.DB.
		Where("school_id = ? AND role = ? AND is_active = ?", schoolID, models.RoleSuperintendent, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SendPendingStepReminders mails each superintendent whose next custody step
// is currently inside its window but still unsubmitted.
func SendPendingStepReminders() {
	log.Println("Running job: SendPendingStepReminders...")

	now := time.Now()
	today := utils.DateOnly(now)

	schools, err := examDaySchools(today)
	if err != nil {
		log.Printf("Error loading exam-day schools: %v", err)
		return
	}

	for _, school := range schools {
		summary, err := trackerService.Summary(school.ID, today)
		if err != nil {
			continue
		}
		if len(summary.PendingEvents) == 0 {
			continue
		}

		entries, err := windowService.Schedules.ActiveOnDate(school.ID, today)
		if err != nil || len(entries) == 0 {
			continue
		}

		completed := make(map[string]bool, len(summary.CompletedEvents))
		for _, e := range summary.CompletedEvents {
			completed[e] = true
		}

		step, window, ok := nextActionableStep(completed, entries, now)
		if !ok {
			continue
		}

		superintendent, err := superintendentFor(school.ID)
		if err != nil {
			log.Printf("No active superintendent for school %s", school.Code)
			continue
		}

		subject := fmt.Sprintf("Reminder: %s is due at %s", step, school.Name)
		body := fmt.Sprintf(
			"<h1>Custody Step Reminder</h1><p>Hi %s,</p><p>The step <b>%s</b> for center %s is open during <b>%s</b> and has not been submitted yet. Please complete it before the window closes.</p>",
			superintendent.FullName, step, school.Code, window.Label,
		)
		go notifications.SendEmail(superintendent.FullName, superintendent.Email, subject, body)
	}
}

// nextActionableStep finds the first pending step, per shift sequence, whose
// predecessors are complete and whose window is currently open.
func nextActionableStep(completed map[string]bool, entries []models.ExamScheduleEntry, now time.Time) (string, services.TimeWindow, bool) {
	for _, shift := range []string{models.ShiftMorning, models.ShiftAfternoon} {
		for _, step := range models.SequenceForShift(shift) {
			if completed[step] {
				continue
			}
			window, err := windowService.WindowForEvent(step, entries)
			if err != nil {
				break
			}
			if window.Contains(now) {
				return step, window, true
			}
			break
		}
	}
	return "", services.TimeWindow{}, false
}
