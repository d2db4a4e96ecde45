package certificateRoutes

import (
	certificateControllers "trainhub/controllers/certificate"
	"trainhub/middleware"
	certificateValidators "trainhub/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certificateGroup := app.Group("/certificate")

	certificateGroup.Post("/add", middleware.JWTMiddleware, middleware.AdminOnly, certificateValidators.CreateCertificate(), certificateControllers.CreateCertificate)
	certificateGroup.Put("/update", middleware.JWTMiddleware, middleware.AdminOnly, certificateValidators.UpdateCertificate(), certificateControllers.UpdateCertificate)
	certificateGroup.Get("/list", middleware.JWTMiddleware, certificateControllers.GetCertificates)
	certificateGroup.Get("/search", middleware.JWTMiddleware, certificateControllers.SearchCertificates)
	certificateGroup.Get("/download/:registration_participant_id", middleware.JWTMiddleware, certificateControllers.DownloadCertificate)
	certificateGroup.Get("/:certificate_id", middleware.JWTMiddleware, certificateControllers.GetCertificateByID)
	certificateGroup.Delete("/:certificate_id", middleware.JWTMiddleware, middleware.AdminOnly, certificateControllers.DeleteCertificate)
}
