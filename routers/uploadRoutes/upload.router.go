package uploadRoutes

import (
	uploadControllers "trainhub/controllers/upload"
	"trainhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App) {
	uploadGroup := app.Group("/upload")

	uploadGroup.Post("/:category", middleware.JWTMiddleware, uploadControllers.UploadFile)
}
