package routes

import (
	"github.com/bibekrb/exam_custody_tracker/handlers"
	"github.com/bibekrb/exam_custody_tracker/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	uploads := api.Group("/uploads")
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
