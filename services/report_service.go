package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/bibekrb/exam_custody_tracker/configs"
	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reportFolder = "exam_custody_reports"

// ReportService renders the end-of-day custody report for a center as a PDF
// and archives it in Cloudinary. One report per (school, exam date).
type ReportService struct {
	DB      *gorm.DB
	Tracker *TrackerService
}

func NewReportService(db *gorm.DB, tracker *TrackerService) *ReportService {
	return &ReportService{DB: db, Tracker: tracker}
}

func (r *ReportService) GenerateDailyReport(schoolID uuid.UUID, date time.Time) error {
	var existing models.DailyReport
	err := r.DB.Where("school_id = ? AND exam_date = ?", schoolID, utils.FormatDate(date)).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var school models.School
	if err := r.DB.First(&school, "id = ?", schoolID).Error; err != nil {
		return fmt.Errorf("load school %s: %w", schoolID, err)
	}

	summary, err := r.Tracker.Summary(schoolID, date)
	if err != nil {
		return err
	}

	htmlContent, err := renderReportHTML(school, summary)
	if err != nil {
		return fmt.Errorf("render report HTML: %w", err)
	}

	pdfBytes, err := renderPDFFromHTML(htmlContent)
	if err != nil {
		return fmt.Errorf("render report PDF: %w", err)
	}

	reportURL, err := uploadReportPDF(pdfBytes, school.Code, date)
	if err != nil {
		return fmt.Errorf("upload report PDF: %w", err)
	}

	report := models.DailyReport{
		SchoolID:    schoolID,
		ExamDate:    utils.DateOnly(date),
		ReportURL:   reportURL,
		EventCount:  len(summary.CompletedEvents),
		IsComplete:  len(summary.PendingEvents) == 0,
		GeneratedAt: time.Now(),
	}
	if err := r.DB.Create(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	log.Printf("✅ Generated custody report for %s on %s", school.Code, utils.FormatDate(date))
	return nil
}

func renderReportHTML(school models.School, summary *ExamTrackerSummary) (string, error) {
	tmpl, err := template.ParseFiles("templates/custody_report.html")
	if err != nil {
		return "", err
	}

	data := struct {
		SchoolName  string
		SchoolCode  string
		District    string
		ExamDate    string
		Completed   []string
		Pending     []string
		Details     map[string]EventDetail
		GeneratedAt string
	}{
		SchoolName:  school.Name,
		SchoolCode:  school.Code,
		District:    school.District,
		ExamDate:    summary.ExamDate,
		Completed:   summary.CompletedEvents,
		Pending:     summary.PendingEvents,
		Details:     summary.EventDetails,
		GeneratedAt: time.Now().Format("January 2, 2006 15:04"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func renderPDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReportPDF(pdfBytes []byte, schoolCode string, date time.Time) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	result, err := cld.Upload.Upload(ctx, bytes.NewReader(pdfBytes), uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s_%s", schoolCode, utils.FormatDate(date)),
		Folder:       reportFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
