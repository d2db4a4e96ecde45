package controllers

import (
	"errors"
	"strings"
	"time"

	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/utils"
	trainingValidator "trainhub/validators/training"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

func parseAvailableDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

type trainingResponse struct {
	models.Training
	SkillList  []string `json:"skill_list"`
	ImageList  []string `json:"image_list"`
	FinalPrice float64  `json:"final_price"`
}

func toTrainingResponse(t models.Training) trainingResponse {
	resp := trainingResponse{Training: t, FinalPrice: t.FinalPrice()}
	if t.Skills != "" {
		resp.SkillList = strings.Split(t.Skills, ",")
	}
	if t.Images != "" {
		resp.ImageList = strings.Split(t.Images, ",")
	}
	return resp
}

// AddTraining creates a new training
func AddTraining(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedTraining").(*trainingValidator.TrainingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	availableDate, err := parseAvailableDate(reqData.AvailableDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid available date!", nil)
	}

	status := reqData.Status
	if status == 0 {
		status = models.TrainingActive
	}

	training := models.Training{
		TrainingID:     utils.GenerateCustomID("TRNG"),
		TrainingName:   reqData.TrainingName,
		Description:    reqData.Description,
		Duration:       reqData.Duration,
		TrainingFees:   reqData.TrainingFees,
		Discount:       reqData.Discount,
		ValidityPeriod: reqData.ValidityPeriod,
		AvailableDate:  availableDate,
		TermCondition:  reqData.TermCondition,
		Level:          reqData.Level,
		Status:         status,
		Skills:         strings.Join(reqData.Skills, ","),
		Images:         strings.Join(reqData.Images, ","),
		CreatedBy:      adminID,
	}

	if err := database.Database.Db.Create(&training).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add training!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Training added successfully", fiber.Map{
		"training_id": training.TrainingID,
	})
}

// UpdateTraining replaces a training's editable fields
func UpdateTraining(c *fiber.Ctx) error {
	trainingID := c.Params("training_id")

	reqData, ok := c.Locals("validatedTraining").(*trainingValidator.TrainingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	availableDate, err := parseAvailableDate(reqData.AvailableDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid available date!", nil)
	}

	var training models.Training
	if err := database.Database.Db.Where("training_id = ?", trainingID).First(&training).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update training!", nil)
	}

	training.TrainingName = reqData.TrainingName
	training.Description = reqData.Description
	training.Duration = reqData.Duration
	training.TrainingFees = reqData.TrainingFees
	training.Discount = reqData.Discount
	training.ValidityPeriod = reqData.ValidityPeriod
	training.AvailableDate = availableDate
	training.TermCondition = reqData.TermCondition
	training.Level = reqData.Level
	if reqData.Status != 0 {
		training.Status = reqData.Status
	}
	training.Skills = strings.Join(reqData.Skills, ",")
	training.Images = strings.Join(reqData.Images, ",")

	if err := database.Database.Db.Save(&training).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update training!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training updated successfully", nil)
}

// ArchiveTraining hides a training from the public listing without deleting it
func ArchiveTraining(c *fiber.Ctx) error {
	trainingID := c.Params("training_id")

	result := database.Database.Db.Model(&models.Training{}).
		Where("training_id = ?", trainingID).
		Update("status", models.TrainingArchived)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to archive training!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training archived successfully", fiber.Map{
		"training_id": trainingID,
		"status":      models.TrainingArchived,
	})
}

// DeleteTraining removes a training record only
func DeleteTraining(c *fiber.Ctx) error {
	trainingID := c.Params("training_id")

	result := database.Database.Db.Unscoped().
		Where("training_id = ?", trainingID).
		Delete(&models.Training{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete training!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training deleted successfully", nil)
}

// trainingRelationSummary counts the records hanging off a training
type trainingRelationSummary struct {
	TotalRegistration int64 `json:"total_registration"`
	TotalParticipant  int64 `json:"total_participant"`
	TotalCertificate  int64 `json:"total_certificate"`
}

func summarizeTrainingRelations(db *gorm.DB, trainingID string) (trainingRelationSummary, error) {
	var summary trainingRelationSummary

	if err := db.Model(&models.Registration{}).
		Where("training_id = ?", trainingID).
		Count(&summary.TotalRegistration).Error; err != nil {
		return summary, err
	}

	if err := db.Table("registration_participants AS rp").
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Where("r.training_id = ?", trainingID).
		Count(&summary.TotalParticipant).Error; err != nil {
		return summary, err
	}

	if err := db.Table("registration_participants AS rp").
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Where("r.training_id = ? AND rp.has_certificate = ?", trainingID, true).
		Count(&summary.TotalCertificate).Error; err != nil {
		return summary, err
	}

	return summary, nil
}

// CheckTrainingRelations previews whether a training can be deleted safely.
// relation_status: 1 = no registrations, 2 = registrations but no
// certificates, 3 = certified participants exist (deletion blocked).
func CheckTrainingRelations(c *fiber.Ctx) error {
	trainingID := c.Params("training_id")
	db := database.Database.Db

	var training models.Training
	if err := db.Where("training_id = ?", trainingID).First(&training).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check training relations!", nil)
	}

	summary, err := summarizeTrainingRelations(db, trainingID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check training relations!", nil)
	}

	relationStatus := 1
	message := "This training has no registration data and can be safely deleted."
	if summary.TotalRegistration > 0 {
		relationStatus = 2
		message = "Training can be deleted safely since there are registrations but no certificates."
	}
	if summary.TotalCertificate > 0 {
		relationStatus = 3
		message = "Cannot delete this training because some participants already have certificates."
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training relations checked", fiber.Map{
		"relation_status": relationStatus,
		"message":         message,
		"summary":         summary,
	})
}

// DeleteTrainingWithRelations removes a training together with its
// registrations and participants. Refused when any participant already holds
// a certificate.
func DeleteTrainingWithRelations(c *fiber.Ctx) error {
	trainingID := c.Params("training_id")
	db := database.Database.Db

	var training models.Training
	if err := db.Where("training_id = ?", trainingID).First(&training).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete training!", nil)
	}

	var certified int64
	if err := db.Table("registration_participants AS rp").
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Where("r.training_id = ? AND rp.has_certificate = ?", trainingID, true).
		Count(&certified).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete training!", nil)
	}
	if certified > 0 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false,
			"Cannot delete this training because one or more participants already have certificates.", nil)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	if err := tx.Unscoped().
		Where("registration_id IN (?)",
			tx.Model(&models.Registration{}).Select("registration_id").Where("training_id = ?", trainingID)).
		Delete(&models.RegistrationParticipant{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete participants!", nil)
	}

	if err := tx.Unscoped().Where("training_id = ?", trainingID).Delete(&models.Registration{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete registrations!", nil)
	}

	result := tx.Unscoped().Where("training_id = ?", trainingID).Delete(&models.Training{})
	if result.Error != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete training!", nil)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found or already deleted", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete training!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training and related data deleted successfully", nil)
}

var allowedTrainingSortFields = map[string]bool{
	"created_at":    true,
	"training_name": true,
	"level":         true,
	"graduates":     true,
}

// GetTrainings lists trainings with optional filters and sorting
func GetTrainings(c *fiber.Ctx) error {
	query := database.Database.Db.Model(&models.Training{})

	status := c.Query("status", "1")
	if status != "all" {
		query = query.Where("status = ?", status)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(training_name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if skill := c.Query("skill"); skill != "" {
		query = query.Where("LOWER(skills) LIKE LOWER(?)", "%"+skill+"%")
	}

	sortBy := c.Query("sort_by", "created_at")
	if !allowedTrainingSortFields[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if c.Query("sort_order") == "asc" {
		sortOrder = "ASC"
	}

	var trainings []models.Training
	if err := query.Order(sortBy + " " + sortOrder).Find(&trainings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trainings!", nil)
	}

	responses := make([]trainingResponse, len(trainings))
	for i, t := range trainings {
		responses[i] = toTrainingResponse(t)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainings fetched successfully", responses)
}

// GetTrainingByID returns a single training
func GetTrainingByID(c *fiber.Ctx) error {
	trainingID := c.Params("training_id")

	var training models.Training
	if err := database.Database.Db.Where("training_id = ?", trainingID).First(&training).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch training!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training fetched successfully", toTrainingResponse(training))
}
