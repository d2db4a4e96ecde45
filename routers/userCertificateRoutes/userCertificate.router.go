package userCertificateRoutes

import (
	userCertificateControllers "trainhub/controllers/usercertificate"
	"trainhub/middleware"
	userCertificateValidators "trainhub/validators/usercertificate"

	"github.com/gofiber/fiber/v2"
)

func SetupUserCertificateRoutes(app *fiber.App) {
	certificateGroup := app.Group("/user-certificate")

	certificateGroup.Post("/add", middleware.JWTMiddleware, userCertificateValidators.CreateUserCertificate(), userCertificateControllers.CreateUserCertificate)
	certificateGroup.Post("/admin/add", middleware.JWTMiddleware, middleware.AdminOnly, userCertificateValidators.CreateUserCertificate(), userCertificateControllers.CreateUserCertificateByAdmin)
	certificateGroup.Patch("/status", middleware.JWTMiddleware, middleware.AdminOnly, userCertificateValidators.UpdateUserCertificateStatus(), userCertificateControllers.UpdateUserCertificateStatus)
	certificateGroup.Get("/list", middleware.JWTMiddleware, userCertificateControllers.GetUserCertificates)
	certificateGroup.Get("/search", middleware.JWTMiddleware, userCertificateControllers.SearchUserCertificates)
	certificateGroup.Get("/:id", middleware.JWTMiddleware, userCertificateControllers.GetUserCertificateByID)
	certificateGroup.Delete("/rejected", middleware.JWTMiddleware, middleware.AdminOnly, userCertificateControllers.DeleteAllRejectedUserCertificates)
	certificateGroup.Delete("/batch", middleware.JWTMiddleware, middleware.AdminOnly, userCertificateControllers.DeleteMultipleUserCertificates)
	certificateGroup.Delete("/:user_certificate_id", middleware.JWTMiddleware, middleware.AdminOnly, userCertificateControllers.DeleteUserCertificate)
}
