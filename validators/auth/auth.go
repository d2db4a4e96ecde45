package authValidator

import (
	"regexp"
	"strings"

	"trainhub/middleware"

	"github.com/gofiber/fiber/v2"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type SignUpRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func SignUp() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignUpRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Fullname = strings.TrimSpace(reqData.Fullname)
		if len(reqData.Fullname) < 3 {
			errors["fullname"] = "Fullname must be at least 3 characters."
		}
		if !emailPattern.MatchString(reqData.Email) {
			errors["email"] = "A valid email address is required."
		}
		if len(reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSignUp", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if !emailPattern.MatchString(reqData.Email) {
			errors["email"] = "A valid email address is required."
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
