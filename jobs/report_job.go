package jobs

import (
	"log"
	"time"

	"github.com/bibekrb/exam_custody_tracker/utils"
)

// GenerateEndOfDayReports renders and archives the custody report PDF for
// every center that held an exam today.
func GenerateEndOfDayReports() {
	log.Println("Running job: GenerateEndOfDayReports...")

	today := utils.DateOnly(time.Now())
	schools, err := examDaySchools(today)
	if err != nil {
		log.Printf("Error loading exam-day schools: %v", err)
		return
	}

	generated := 0
	for _, school := range schools {
		if err := reportService.GenerateDailyReport(school.ID, today); err != nil {
			log.Printf("Error generating report for school %s: %v", school.Code, err)
			continue
		}
		generated++
	}
	log.Printf("Generated custody reports for %d center(s).", generated)
}
