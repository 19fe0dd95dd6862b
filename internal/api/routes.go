package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")
	api.Post("/onboarding", handler.StartOnboarding)

	users := api.Group("/users")
	users.Post("/:id/progress", handler.TrackProgress)
	users.Post("/:id/milestones/:key", handler.CelebrateMilestone)

	api.Post("/digest/run", handler.RunDigest)
}
