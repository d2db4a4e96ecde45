package controllers

import (
	"trainhub/middleware"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
)

var allowedCategories = map[string]bool{
	"certificates":   true,
	"payment-proofs": true,
	"articles":       true,
	"trainings":      true,
	"photos":         true,
}

// UploadFile stores a multipart file under the requested category and
// returns its public URL.
func UploadFile(c *fiber.Ctx) error {
	category := c.Params("category")
	if !allowedCategories[category] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown upload category.", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded.", nil)
	}

	relPath, err := utils.SaveUploadedFile(file, category)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully.", fiber.Map{
		"path": relPath,
		"url":  utils.GetFileURL(relPath),
	})
}
