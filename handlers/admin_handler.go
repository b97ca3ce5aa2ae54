package handlers

import (
	"time"

	"github.com/bibekrb/exam_custody_tracker/database"
	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/bibekrb/exam_custody_tracker/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type SchoolRequest struct {
	Name      string  `json:"name" validate:"required,min=3"`
	Code      string  `json:"code" validate:"required,min=2,max=20"`
	District  string  `json:"district"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

func CreateSchool(c *fiber.Ctx) error {
	var req SchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	school := models.School{
		Name:      req.Name,
		Code:      req.Code,
		District:  req.District,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := database.DB.Create(&school).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A school with this code already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(school)
}

func ListSchools(c *fiber.Ctx) error {
	var schools []models.School
	database.DB.Order("code asc").Find(&schools)
	return c.JSON(schools)
}

type SuperintendentRequest struct {
	FullName string `json:"full_name" validate:"required,min=5"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	SchoolID string `json:"school_id" validate:"required,uuid"`
}

// CreateSuperintendent provisions the designated Center Superintendent for a
// school. One active superintendent per center.
func CreateSuperintendent(c *fiber.Ctx) error {
	var req SuperintendentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	schoolID, err := uuid.Parse(req.SchoolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid school_id"})
	}

	var school models.School
	if err := database.DB.First(&school, "id = ?", schoolID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "School not found"})
	}

	var count int64
	database.DB.Model(&models.User{}).
		Where("school_id = ? AND role = ? AND is_active = ?", schoolID, models.RoleSuperintendent, true).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This school already has a designated superintendent"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleSuperintendent,
		SchoolID: &schoolID,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A user with this email already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        user.ID.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
		SchoolID:  &req.SchoolID,
		CreatedAt: user.CreatedAt,
	})
}

func ListSuperintendents(c *fiber.Ctx) error {
	var users []models.User
	database.DB.Preload("School").
		Where("role = ?", models.RoleSuperintendent).
		Order("created_at desc").
		Find(&users)
	return c.JSON(users)
}

type ScheduleEntryRequest struct {
	SchoolID        *string `json:"school_id" validate:"omitempty,uuid"`
	ExamDate        string  `json:"exam_date" validate:"required"`
	ClassLevel      string  `json:"class_level" validate:"required,oneof=CLASS_10 CLASS_12"`
	Subject         string  `json:"subject" validate:"required"`
	SubjectCategory string  `json:"subject_category" validate:"required,oneof=CORE VOCATIONAL"`
	Shift           string  `json:"shift" validate:"required,oneof=MORNING AFTERNOON"`
	ExamStartTime   string  `json:"exam_start_time" validate:"required"`
	ExamEndTime     string  `json:"exam_end_time" validate:"required"`
}

func CreateScheduleEntry(c *fiber.Ctx) error {
	var req ScheduleEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	examDate, err := utils.ParseDate(req.ExamDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exam_date, expected YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", req.ExamStartTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exam_start_time, expected HH:MM"})
	}
	if _, err := time.Parse("15:04", req.ExamEndTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exam_end_time, expected HH:MM"})
	}

	entry := models.ExamScheduleEntry{
		ExamDate:        examDate,
		ClassLevel:      req.ClassLevel,
		Subject:         req.Subject,
		SubjectCategory: req.SubjectCategory,
		Shift:           req.Shift,
		ExamStartTime:   req.ExamStartTime,
		ExamEndTime:     req.ExamEndTime,
		IsActive:        true,
	}
	if req.SchoolID != nil {
		schoolID, err := uuid.Parse(*req.SchoolID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid school_id"})
		}
		entry.SchoolID = &schoolID
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create schedule entry"})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func ListScheduleEntries(c *fiber.Ctx) error {
	query := database.DB.Order("exam_date asc, exam_start_time asc")

	if raw := c.Query("date"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		query = query.Where("exam_date = ?", utils.FormatDate(date))
	}
	if raw := c.Query("school_id"); raw != "" {
		schoolID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid school_id"})
		}
		query = query.Where("school_id = ? OR school_id IS NULL", schoolID)
	}

	var entries []models.ExamScheduleEntry
	query.Find(&entries)
	return c.JSON(entries)
}

func DeactivateScheduleEntry(c *fiber.Ctx) error {
	entryID := c.Params("entryId")

	var entry models.ExamScheduleEntry
	if err := database.DB.First(&entry, "id = ?", entryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule entry not found"})
	}

	entry.IsActive = false
	if err := database.DB.Save(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate schedule entry"})
	}
	return c.JSON(entry)
}

// VerifyTrackerEvent marks a submitted custody event as verified by the
// reviewing admin. The verification fields are the only mutation ever applied
// to a ledger row.
func VerifyTrackerEvent(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	eventID := c.Params("eventId")
	var event models.ExamTrackerEvent
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tracker event not found"})
	}

	if event.IsVerified {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Event is already verified"})
	}

	now := time.Now()
	event.IsVerified = true
	event.VerifiedBy = &adminID
	event.VerifiedAt = &now

	if err := database.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify event"})
	}
	return c.JSON(event)
}

func ListUnverifiedEvents(c *fiber.Ctx) error {
	query := database.DB.Preload("School").Where("is_verified = ?", false).Order("submitted_at asc")

	if raw := c.Query("date"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		query = query.Where("exam_date = ?", utils.FormatDate(date))
	}

	var events []models.ExamTrackerEvent
	query.Find(&events)
	return c.JSON(events)
}

func ListDailyReports(c *fiber.Ctx) error {
	query := database.DB.Preload("School").Order("exam_date desc")

	if raw := c.Query("date"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		query = query.Where("exam_date = ?", utils.FormatDate(date))
	}

	var reports []models.DailyReport
	query.Find(&reports)
	return c.JSON(reports)
}
