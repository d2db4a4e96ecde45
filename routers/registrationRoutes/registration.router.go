package registrationRoutes

import (
	registrationControllers "trainhub/controllers/registration"
	"trainhub/middleware"
	registrationValidators "trainhub/validators/registration"

	"github.com/gofiber/fiber/v2"
)

func SetupRegistrationRoutes(app *fiber.App) {
	registrationGroup := app.Group("/registration")

	registrationGroup.Post("/add", middleware.JWTMiddleware, registrationValidators.CreateRegistration(), registrationControllers.CreateRegistration)
	registrationGroup.Get("/list", middleware.JWTMiddleware, registrationControllers.GetRegistrations)
	registrationGroup.Get("/search", middleware.JWTMiddleware, registrationControllers.SearchRegistrations)
	registrationGroup.Get("/check/:user_id/:training_id", middleware.JWTMiddleware, registrationControllers.CheckUserRegistration)
	registrationGroup.Get("/:registration_id", middleware.JWTMiddleware, registrationControllers.GetRegistrationByID)
	registrationGroup.Patch("/:registration_id/status", middleware.JWTMiddleware, middleware.AdminOnly, registrationValidators.UpdateRegistrationStatus(), registrationControllers.UpdateRegistrationStatus)
	registrationGroup.Patch("/payment-proof", middleware.JWTMiddleware, registrationValidators.SavePaymentProof(), registrationControllers.SavePaymentProof)
	registrationGroup.Delete("/cancelled", middleware.JWTMiddleware, middleware.AdminOnly, registrationControllers.DeleteAllCancelledRegistrations)
	registrationGroup.Delete("/batch", middleware.JWTMiddleware, middleware.AdminOnly, registrationControllers.DeleteMultipleRegistrations)
	registrationGroup.Delete("/:registration_id", middleware.JWTMiddleware, middleware.AdminOnly, registrationControllers.DeleteRegistration)
	registrationGroup.Post("/auto-cancel", middleware.JWTMiddleware, middleware.AdminOnly, registrationControllers.TriggerAutoCancel)
}
