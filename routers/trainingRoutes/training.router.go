package trainingRoutes

import (
	trainingControllers "trainhub/controllers/training"
	"trainhub/middleware"
	trainingValidators "trainhub/validators/training"

	"github.com/gofiber/fiber/v2"
)

func SetupTrainingRoutes(app *fiber.App) {
	trainingGroup := app.Group("/training")

	trainingGroup.Get("/list", trainingControllers.GetTrainings)
	trainingGroup.Get("/:training_id", trainingControllers.GetTrainingByID)

	trainingGroup.Post("/add", middleware.JWTMiddleware, middleware.AdminOnly, trainingValidators.Training(), trainingControllers.AddTraining)
	trainingGroup.Put("/:training_id", middleware.JWTMiddleware, middleware.AdminOnly, trainingValidators.Training(), trainingControllers.UpdateTraining)
	trainingGroup.Patch("/:training_id/archive", middleware.JWTMiddleware, middleware.AdminOnly, trainingControllers.ArchiveTraining)
	trainingGroup.Get("/:training_id/relations", middleware.JWTMiddleware, middleware.AdminOnly, trainingControllers.CheckTrainingRelations)
	trainingGroup.Delete("/:training_id", middleware.JWTMiddleware, middleware.AdminOnly, trainingControllers.DeleteTraining)
	trainingGroup.Delete("/:training_id/with-relations", middleware.JWTMiddleware, middleware.AdminOnly, trainingControllers.DeleteTrainingWithRelations)
}
