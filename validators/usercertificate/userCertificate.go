package userCertificateValidator

import (
	"trainhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateUserCertificateRequest is the payload for a self-uploaded certificate.
// CertFiles must hold 1-3 file URLs.
type CreateUserCertificateRequest struct {
	UserID            *uint    `json:"user_id"`
	Fullname          string   `json:"fullname" validate:"required"`
	CertType          string   `json:"cert_type" validate:"required"`
	Issuer            string   `json:"issuer" validate:"required"`
	IssuedDate        string   `json:"issued_date" validate:"required,datetime=2006-01-02"`
	ExpiredDate       string   `json:"expired_date" validate:"omitempty,datetime=2006-01-02"`
	CertificateNumber string   `json:"certificate_number" validate:"required"`
	CertFiles         []string `json:"cert_file" validate:"required,min=1,max=3,dive,required"`
	Notes             string   `json:"notes"`
}

// UpdateUserCertificateStatusRequest moves a certificate to Accepted (2) or
// Rejected (3). There is no transition back to Pending.
type UpdateUserCertificateStatusRequest struct {
	UserCertificateID string `json:"user_certificate_id" validate:"required"`
	Status            int    `json:"status" validate:"required,oneof=2 3"`
	Notes             string `json:"notes"`
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

func CreateUserCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserCertificateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedUserCertificate", reqData)
		return c.Next()
	}
}

func UpdateUserCertificateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserCertificateStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedStatusUpdate", reqData)
		return c.Next()
	}
}
