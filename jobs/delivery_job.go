package jobs

import (
	"fmt"
	"log"
	"strings"
	"time"

	config "github.com/bibekrb/exam_custody_tracker/configs"
	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/notifications"
	"github.com/bibekrb/exam_custody_tracker/utils"
)

// FlagMissedDeliveries runs after the delivery window closes and mails the
// board a list of centers that never submitted a delivery event today.
func FlagMissedDeliveries() {
	log.Println("Running job: FlagMissedDeliveries...")

	today := utils.DateOnly(time.Now())
	schools, err := examDaySchools(today)
	if err != nil {
		log.Printf("Error loading exam-day schools: %v", err)
		return
	}

	var missed []string
	for _, school := range schools {
		summary, err := trackerService.Summary(school.ID, today)
		if err != nil {
			continue
		}

		delivered := false
		for _, e := range summary.CompletedEvents {
			if e == models.EventDeliveryMorning || e == models.EventDeliveryAfternoon {
				delivered = true
				break
			}
		}
		if !delivered {
			missed = append(missed, fmt.Sprintf("%s (%s)", school.Name, school.Code))
		}
	}

	if len(missed) == 0 {
		log.Println("All exam-day centers delivered today.")
		return
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	subject := fmt.Sprintf("⚠️ %d center(s) missed answer sheet delivery on %s", len(missed), utils.FormatDate(today))
	body := fmt.Sprintf(
		"<h1>Missed Deliveries</h1><p>The following centers did not record a delivery event before the window closed:</p><ul><li>%s</li></ul>",
		strings.Join(missed, "</li><li>"),
	)
	go notifications.SendEmail("Exam Board Admin", adminEmail, subject, body)

	log.Printf("Flagged %d center(s) with missed deliveries.", len(missed))
}
