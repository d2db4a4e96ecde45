package trainingValidator

import (
	"trainhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// TrainingRequest is the payload for creating or updating a training
type TrainingRequest struct {
	TrainingName   string   `json:"training_name" validate:"required,min=3"`
	Description    string   `json:"description" validate:"required,min=5"`
	Duration       int64    `json:"duration" validate:"required,gt=0"`
	TrainingFees   float64  `json:"training_fees" validate:"gte=0"`
	Discount       float64  `json:"discount" validate:"gte=0,lt=100"`
	ValidityPeriod int      `json:"validity_period" validate:"gte=0"`
	AvailableDate  string   `json:"available_date" validate:"omitempty,datetime=2006-01-02"`
	TermCondition  string   `json:"term_condition" validate:"required"`
	Level          string   `json:"level" validate:"required"`
	Status         int      `json:"status" validate:"omitempty,oneof=1 2"`
	Skills         []string `json:"skills"`
	Images         []string `json:"images" validate:"omitempty,dive,url"`
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

func Training() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TrainingRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedTraining", reqData)
		return c.Next()
	}
}
