package certificateValidator

import (
	"strings"
	"time"

	"trainhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCertificateRequest is the payload for issuing a training certificate.
// CertificateNumber is optional; a missing or placeholder value gets a
// generated number.
type CreateCertificateRequest struct {
	RegistrationParticipantID string `json:"registration_participant_id"`
	IssuedDate                string `json:"issued_date"`
	ExpiredDate               string `json:"expired_date"`
	CertificateNumber         string `json:"certificate_number"`
	CertFile                  string `json:"cert_file"`
}

// UpdateCertificateRequest uses pointers so an absent field keeps the stored
// value. A supplied empty expired_date clears the expiry.
type UpdateCertificateRequest struct {
	CertificateID             string  `json:"certificate_id"`
	RegistrationParticipantID string  `json:"registration_participant_id"`
	IssuedDate                *string `json:"issued_date"`
	ExpiredDate               *string `json:"expired_date"`
	CertFile                  *string `json:"cert_file"`
}

func validDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func CreateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCertificateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.RegistrationParticipantID) == "" {
			errors["registration_participant_id"] = "Registration participant ID is required!"
		}

		if strings.TrimSpace(reqData.IssuedDate) == "" {
			errors["issued_date"] = "Issued date is required!"
		} else if !validDate(reqData.IssuedDate) {
			errors["issued_date"] = "Issued date must be in YYYY-MM-DD format!"
		}

		if reqData.ExpiredDate != "" && !validDate(reqData.ExpiredDate) {
			errors["expired_date"] = "Expired date must be in YYYY-MM-DD format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCertificate", reqData)
		return c.Next()
	}
}

func UpdateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCertificateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.CertificateID) == "" {
			errors["certificate_id"] = "Certificate ID is required!"
		}

		if strings.TrimSpace(reqData.RegistrationParticipantID) == "" {
			errors["registration_participant_id"] = "Registration participant ID is required!"
		}

		if reqData.IssuedDate != nil && *reqData.IssuedDate != "" && !validDate(*reqData.IssuedDate) {
			errors["issued_date"] = "Issued date must be in YYYY-MM-DD format!"
		}

		if reqData.ExpiredDate != nil && *reqData.ExpiredDate != "" && !validDate(*reqData.ExpiredDate) {
			errors["expired_date"] = "Expired date must be in YYYY-MM-DD format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCertificateUpdate", reqData)
		return c.Next()
	}
}
