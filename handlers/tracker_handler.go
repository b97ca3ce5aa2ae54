package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/bibekrb/exam_custody_tracker/services"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	trackerService *services.TrackerService
	examDayService *services.ExamDayService
	windowService  *services.TimeWindowService
)

// InitTrackerHandlers wires the tracker services; called once from main.
func InitTrackerHandlers(tracker *services.TrackerService, examDay *services.ExamDayService, windows *services.TimeWindowService) {
	trackerService = tracker
	examDayService = examDay
	windowService = windows
}

func superintendentClaims(c *fiber.Ctx) (userID uuid.UUID, schoolID uuid.UUID, err error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	userID, err = uuid.Parse(claims["user_id"].(string))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	rawSchool, ok := claims["school_id"].(string)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.New("token carries no school assignment")
	}
	schoolID, err = uuid.Parse(rawSchool)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, schoolID, nil
}

func queryDate(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return utils.DateOnly(time.Now()), nil
	}
	return utils.ParseDate(raw)
}

func renderTrackerError(c *fiber.Ctx, err error) error {
	var te *services.TrackerError
	if errors.As(err, &te) {
		resp := fiber.Map{
			"success":    false,
			"error_code": te.Code,
			"error":      te.Message,
		}
		if te.MissingStep != "" {
			resp["missing_step"] = te.MissingStep
		}
		if te.Window != "" {
			resp["window"] = te.Window
		}
		return c.Status(te.Status).JSON(resp)
	}

	log.Printf("tracker request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success":    false,
		"error_code": services.CodeNetworkError,
		"error":      "Request failed, please try again",
	})
}

func GetExamDayStatus(c *fiber.Ctx) error {
	_, schoolID, err := superintendentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	status, err := examDayService.StatusFor(schoolID)
	if err != nil {
		return renderTrackerError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": status})
}

func GetTimeWindows(c *fiber.Ctx) error {
	_, schoolID, err := superintendentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	date, err := queryDate(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	windows, err := windowService.WindowsForDate(schoolID, date)
	if err != nil {
		return renderTrackerError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": windows})
}

func GetEventSummary(c *fiber.Ctx) error {
	_, schoolID, err := superintendentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	date, err := queryDate(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	summary, err := trackerService.Summary(schoolID, date)
	if err != nil {
		return renderTrackerError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

type SubmitEventRequest struct {
	EventType  string  `form:"event_type" validate:"required,oneof=TREASURY_ARRIVAL CUSTODIAN_HANDOVER OPENING_MORNING OPENING_AFTERNOON PACKING_MORNING PACKING_AFTERNOON DELIVERY_MORNING DELIVERY_AFTERNOON"`
	ExamDate   string  `form:"exam_date" validate:"required"`
	Latitude   float64 `form:"latitude" validate:"required,min=-90,max=90"`
	Longitude  float64 `form:"longitude" validate:"required,min=-180,max=180"`
	CapturedAt string  `form:"captured_at" validate:"required"`
	Shift      *string `form:"shift" validate:"omitempty,oneof=GENERAL MORNING AFTERNOON"`
}

func SubmitTrackerEvent(c *fiber.Ctx) error {
	userID, schoolID, err := superintendentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req SubmitEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse form data"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	examDate, err := utils.ParseDate(req.ExamDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exam_date, expected YYYY-MM-DD"})
	}

	capturedAt, err := time.Parse(time.RFC3339, req.CapturedAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid captured_at, expected RFC3339 timestamp"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Evidence image file is required"})
	}
	photo, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read uploaded image"})
	}
	defer photo.Close()

	event, err := trackerService.Submit(c.Context(), services.SubmissionInput{
		UserID:       userID,
		UserRole:     c.Locals("user").(*jwt.Token).Claims.(jwt.MapClaims)["role"].(string),
		UserSchoolID: &schoolID,
		SchoolID:     schoolID,
		EventType:    req.EventType,
		ExamDate:     examDate,
		Shift:        req.Shift,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CapturedAt:   capturedAt,
		Photo:        photo,
	})
	if err != nil {
		return renderTrackerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": event})
}
