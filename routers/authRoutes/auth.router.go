package authRoutes

import (
	authControllers "trainhub/controllers/auth"
	authValidators "trainhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.SignUp(), authControllers.SignUp)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
}
