package controllers

import (
	"strings"
	"time"

	"trainhub/config"
	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"
	authValidator "trainhub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SignUp registers a new user account.
func SignUp(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignUp").(*authValidator.SignUpRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	db := database.Database.Db
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An account with this email already exists.", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to secure password!", nil)
	}

	user := models.User{
		Fullname: reqData.Fullname,
		Email:    email,
		Mobile:   reqData.Mobile,
		Role:     "user",
		Password: string(hashed),
	}

	if err := db.Create(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created successfully.", fiber.Map{
		"id":       user.ID,
		"fullname": user.Fullname,
		"email":    user.Email,
	})
}

// Login verifies credentials and returns a signed token.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	db := database.Database.Db
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password.", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Fullname, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	// login still succeeds if the timestamp write fails
	now := time.Now()
	user.LastLogin = &now
	db.Model(&user).Update("last_login", now)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"fullname": user.Fullname,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
