package articleRoutes

import (
	articleControllers "trainhub/controllers/article"
	"trainhub/middleware"
	articleValidators "trainhub/validators/article"

	"github.com/gofiber/fiber/v2"
)

func SetupArticleRoutes(app *fiber.App) {
	articleGroup := app.Group("/article")

	articleGroup.Get("/list", articleControllers.GetArticles)
	articleGroup.Get("/:article_id", articleControllers.GetArticleByID)

	articleGroup.Post("/add", middleware.JWTMiddleware, middleware.AdminOnly, articleValidators.Article(), articleControllers.AddArticle)
	articleGroup.Put("/:article_id", middleware.JWTMiddleware, middleware.AdminOnly, articleValidators.Article(), articleControllers.UpdateArticle)
	articleGroup.Delete("/:article_id", middleware.JWTMiddleware, middleware.AdminOnly, articleControllers.DeleteArticle)
}
