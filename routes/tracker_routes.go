package routes

import (
	"github.com/bibekrb/exam_custody_tracker/handlers"
	"github.com/bibekrb/exam_custody_tracker/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func TrackerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tracker := api.Group("/tracker", middleware.Protected(), middleware.SuperintendentRequired())
	tracker.Get("/exam-day-status", handlers.GetExamDayStatus)
	tracker.Get("/time-windows", handlers.GetTimeWindows)
	tracker.Get("/events/summary", handlers.GetEventSummary)
	tracker.Post("/events", handlers.SubmitTrackerEvent)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/feed", websocket.New(handlers.ServeEventFeed))
}
