package registrationValidator

import (
	"trainhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateRegistrationRequest books one or more participants into a training
type CreateRegistrationRequest struct {
	TrainingID   string `json:"training_id" validate:"required"`
	TrainingDate string `json:"training_date" validate:"required,datetime=2006-01-02"`
	Participants []uint `json:"participants" validate:"required,min=1,dive,gt=0"`
}

// UpdateRegistrationStatusRequest moves a registration through its lifecycle
type UpdateRegistrationStatusRequest struct {
	Status int `json:"status" validate:"required,oneof=1 2 3 4 5"`
}

// SavePaymentProofRequest attaches an uploaded payment proof
type SavePaymentProofRequest struct {
	RegistrationID string `json:"registration_id" validate:"required"`
	PaymentProof   string `json:"payment_proof" validate:"required,url"`
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

func CreateRegistration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRegistrationRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedRegistration", reqData)
		return c.Next()
	}
}

func UpdateRegistrationStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateRegistrationStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedRegistrationStatus", reqData)
		return c.Next()
	}
}

func SavePaymentProof() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SavePaymentProofRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedPaymentProof", reqData)
		return c.Next()
	}
}
