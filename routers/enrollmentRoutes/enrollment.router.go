package enrollmentRoutes

import (
	enrollmentControllers "trainhub/controllers/enrollment"
	"trainhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollment")

	enrollmentGroup.Patch("/attendance/:registration_participant_id", middleware.JWTMiddleware, middleware.AdminOnly, enrollmentControllers.UpdateAttendanceStatus)
	enrollmentGroup.Patch("/attendance", middleware.JWTMiddleware, middleware.AdminOnly, enrollmentControllers.UpdateMultipleAttendanceStatus)
	enrollmentGroup.Get("/completed", middleware.JWTMiddleware, middleware.AdminOnly, enrollmentControllers.GetCompletedParticipants)
	enrollmentGroup.Get("/history/:user_id", middleware.JWTMiddleware, enrollmentControllers.GetUserTrainingHistory)
}
