package main

import (
	"log"
	"time"

	"github.com/bibekrb/exam_custody_tracker/database"
	"github.com/bibekrb/exam_custody_tracker/handlers"
	"github.com/bibekrb/exam_custody_tracker/jobs"
	"github.com/bibekrb/exam_custody_tracker/notifications"
	"github.com/bibekrb/exam_custody_tracker/routes"
	"github.com/bibekrb/exam_custody_tracker/services"
	"github.com/bibekrb/exam_custody_tracker/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	scheduleStore := database.NewScheduleStore(database.DB)
	eventStore := database.NewEventStore(database.DB)

	windowService := services.NewTimeWindowService(scheduleStore)
	examDayService := services.NewExamDayService(scheduleStore)
	trackerService := services.NewTrackerService(eventStore, scheduleStore, windowService, services.NewCloudinaryUploader())
	trackerService.Publish = websocket.PublishEvent
	reportService := services.NewReportService(database.DB, trackerService)

	handlers.InitTrackerHandlers(trackerService, examDayService, windowService)
	jobs.Init(trackerService, windowService, reportService)

	c := cron.New()
	c.AddFunc("*/30 7-17 * * *", jobs.SendPendingStepReminders)
	c.AddFunc("15 14 * * *", jobs.FlagMissedDeliveries)
	c.AddFunc("0 18 * * *", jobs.GenerateEndOfDayReports)
	go c.Start()
	log.Println("✅ Cron jobs for custody tracking scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Exam Custody Tracker",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BodyLimit:         15 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the Exam Custody Tracker API",
		})
	})

	routes.AuthRoutes(app)
	routes.AdminRoutes(app)
	routes.TrackerRoutes(app)
	routes.UploadRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
