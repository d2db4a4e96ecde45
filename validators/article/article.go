package articleValidator

import (
	"trainhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ArticleRequest struct {
	Title    string   `json:"title" validate:"required,min=3"`
	Content  string   `json:"content" validate:"required,min=10"`
	Category string   `json:"category"`
	Tags     []string `json:"tags" validate:"omitempty,dive,required"`
	Images   []string `json:"images" validate:"omitempty,dive,url"`
}

func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "Failed on '" + fe.Tag() + "' validation"
		}
	}
	return errors
}

func Article() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ArticleRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedArticle", reqData)
		return c.Next()
	}
}
