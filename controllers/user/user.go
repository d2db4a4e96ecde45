package controllers

import (
	"strings"

	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"

	"github.com/gofiber/fiber/v2"
)

type profileResponse struct {
	ID        uint   `json:"id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Role      string `json:"role"`
	UserPhoto string `json:"user_photo,omitempty"`
}

type updateProfileRequest struct {
	Fullname  string `json:"fullname"`
	Mobile    string `json:"mobile"`
	UserPhoto string `json:"user_photo"`
}

func toProfile(user models.User) profileResponse {
	return profileResponse{
		ID:        user.ID,
		Fullname:  user.Fullname,
		Email:     user.Email,
		Mobile:    user.Mobile,
		Role:      user.Role,
		UserPhoto: user.UserPhoto,
	}
}

// GetProfile returns the authenticated user's own profile.
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", toProfile(user))
}

// UpdateProfile updates the authenticated user's editable fields.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(updateProfileRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found.", nil)
	}

	if fullname := strings.TrimSpace(reqData.Fullname); fullname != "" {
		user.Fullname = fullname
	}
	if reqData.Mobile != "" {
		user.Mobile = reqData.Mobile
	}
	if reqData.UserPhoto != "" {
		user.UserPhoto = reqData.UserPhoto
	}

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", toProfile(user))
}

// ListUsers returns user accounts for admin screens.
func ListUsers(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(fullname) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	profiles := make([]profileResponse, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, toProfile(user))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", profiles)
}
