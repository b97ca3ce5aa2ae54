package routes

import (
	"github.com/bibekrb/exam_custody_tracker/handlers"
	"github.com/bibekrb/exam_custody_tracker/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	schools := admin.Group("/schools")
	schools.Post("", handlers.CreateSchool)
	schools.Get("", handlers.ListSchools)

	admin.Post("/superintendents", handlers.CreateSuperintendent)
	admin.Get("/superintendents", handlers.ListSuperintendents)

	schedules := admin.Group("/schedules")
	schedules.Post("", handlers.CreateScheduleEntry)
	schedules.Get("", handlers.ListScheduleEntries)
	schedules.Put("/:entryId/deactivate", handlers.DeactivateScheduleEntry)

	events := admin.Group("/tracker-events")
	events.Get("/unverified", handlers.ListUnverifiedEvents)
	events.Post("/:eventId/verify", handlers.VerifyTrackerEvent)

	admin.Get("/reports", handlers.ListDailyReports)
}
