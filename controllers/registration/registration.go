package controllers

import (
	"log"
	"strings"
	"time"

	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/utils"
	registrationValidator "trainhub/validators/registration"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type registrationRow struct {
	RegistrationID   string     `json:"registration_id"`
	TrainingID       string     `json:"training_id"`
	TrainingName     string     `json:"training_name"`
	UserID           uint       `json:"user_id"`
	RegisteredBy     string     `json:"registered_by"`
	TrainingDate     time.Time  `json:"training_date"`
	Status           int        `json:"status"`
	PaymentProof     string     `json:"payment_proof,omitempty"`
	CompletedDate    *time.Time `json:"completed_date,omitempty"`
	ParticipantCount int64      `json:"participant_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

type participantRow struct {
	RegistrationParticipantID string `json:"registration_participant_id"`
	UserID                    uint   `json:"user_id"`
	Fullname                  string `json:"fullname"`
	AttendanceStatus          *bool  `json:"attendance_status"`
	HasCertificate            bool   `json:"has_certificate"`
}

// CreateRegistration books a training for the authenticated user and the
// listed participants in a single transaction.
func CreateRegistration(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegistration").(*registrationValidator.CreateRegistrationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trainingDate, err := time.Parse(dateLayout, reqData.TrainingDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid training date!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var training models.Training
	if err := tx.Where("training_id = ?", reqData.TrainingID).First(&training).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found.", nil)
	}

	if training.Status != models.TrainingActive {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Training is not open for registration.", nil)
	}

	var userCount int64
	if err := tx.Model(&models.User{}).Where("id IN ?", reqData.Participants).Count(&userCount).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify participants!", nil)
	}
	if userCount != int64(len(reqData.Participants)) {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "One or more participants do not exist.", nil)
	}

	registration := models.Registration{
		RegistrationID: utils.GenerateCustomID("REG"),
		TrainingID:     reqData.TrainingID,
		UserID:         userID,
		TrainingDate:   trainingDate,
		Status:         models.RegistrationPending,
	}

	if err := tx.Create(&registration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create registration!", nil)
	}

	participants := make([]models.RegistrationParticipant, 0, len(reqData.Participants))
	for _, participantID := range reqData.Participants {
		participants = append(participants, models.RegistrationParticipant{
			RegistrationParticipantID: utils.GenerateCustomID("RPRT"),
			RegistrationID:            registration.RegistrationID,
			UserID:                    participantID,
		})
	}

	if err := tx.Create(&participants).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register participants!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	go notifyRegistrationReceived(userID, training.TrainingName, trainingDate)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration created successfully.", fiber.Map{
		"registration_id":   registration.RegistrationID,
		"training_id":       registration.TrainingID,
		"participant_count": len(participants),
	})
}

func notifyRegistrationReceived(userID uint, trainingName string, trainingDate time.Time) {
	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		log.Printf("registration email skipped: %v", err)
		return
	}
	if err := utils.SendRegistrationReceivedEmail(user.Email, user.Fullname, trainingName, trainingDate); err != nil {
		log.Printf("registration email failed: %v", err)
	}
}

// GetRegistrations lists registrations with training and registrant details.
func GetRegistrations(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Table("registrations AS r").
		Select(`r.registration_id, r.training_id, t.training_name, r.user_id,
			u.fullname AS registered_by, r.training_date, r.status, r.payment_proof,
			r.completed_date, r.created_at,
			(SELECT COUNT(*) FROM registration_participants rp WHERE rp.registration_id = r.registration_id) AS participant_count`).
		Joins("JOIN trainings t ON t.training_id = r.training_id").
		Joins("JOIN users u ON u.id = r.user_id")

	if status := c.Query("status"); status != "" {
		query = query.Where("r.status = ?", status)
	}
	if trainingID := c.Query("training_id"); trainingID != "" {
		query = query.Where("r.training_id = ?", trainingID)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("r.user_id = ?", userID)
	}

	var rows []registrationRow
	if err := query.Order("r.created_at DESC").Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch registrations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations fetched successfully.", rows)
}

// GetRegistrationByID returns one registration with its participants.
func GetRegistrationByID(c *fiber.Ctx) error {
	registrationID := c.Params("registration_id")
	db := database.Database.Db

	var row registrationRow
	err := db.Table("registrations AS r").
		Select(`r.registration_id, r.training_id, t.training_name, r.user_id,
			u.fullname AS registered_by, r.training_date, r.status, r.payment_proof,
			r.completed_date, r.created_at`).
		Joins("JOIN trainings t ON t.training_id = r.training_id").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.registration_id = ?", registrationID).
		Scan(&row).Error
	if err != nil || row.RegistrationID == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Registration not found.", nil)
	}

	var participants []participantRow
	err = db.Table("registration_participants AS rp").
		Select("rp.registration_participant_id, rp.user_id, u.fullname, rp.attendance_status, rp.has_certificate").
		Joins("JOIN users u ON u.id = rp.user_id").
		Where("rp.registration_id = ?", registrationID).
		Scan(&participants).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch participants!", nil)
	}

	row.ParticipantCount = int64(len(participants))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration fetched successfully.", fiber.Map{
		"registration": row,
		"participants": participants,
	})
}

// UpdateRegistrationStatus moves a registration to a new lifecycle status.
// Completing a registration stamps the completion date; confirming one
// notifies the registrant.
func UpdateRegistrationStatus(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegistrationStatus").(*registrationValidator.UpdateRegistrationStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	registrationID := c.Params("registration_id")
	db := database.Database.Db

	var registration models.Registration
	if err := db.Where("registration_id = ?", registrationID).First(&registration).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Registration not found.", nil)
	}

	registration.Status = reqData.Status
	if reqData.Status == models.RegistrationCompleted {
		now := time.Now()
		registration.CompletedDate = &now
	}

	if err := db.Save(&registration).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update registration!", nil)
	}

	if reqData.Status == models.RegistrationConfirmed {
		go notifyRegistrationConfirmed(registration)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration status updated successfully.", fiber.Map{
		"registration_id": registration.RegistrationID,
		"status":          registration.Status,
	})
}

func notifyRegistrationConfirmed(registration models.Registration) {
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, registration.UserID).Error; err != nil {
		log.Printf("confirmation email skipped: %v", err)
		return
	}

	var training models.Training
	if err := db.Where("training_id = ?", registration.TrainingID).First(&training).Error; err != nil {
		log.Printf("confirmation email skipped: %v", err)
		return
	}

	if err := utils.SendRegistrationConfirmedEmail(user.Email, user.Fullname, training.TrainingName, registration.TrainingDate); err != nil {
		log.Printf("confirmation email failed: %v", err)
	}
}

// SavePaymentProof attaches an uploaded payment proof URL to a registration.
func SavePaymentProof(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPaymentProof").(*registrationValidator.SavePaymentProofRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	db := database.Database.Db

	var registration models.Registration
	if err := db.Where("registration_id = ?", reqData.RegistrationID).First(&registration).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Registration not found.", nil)
	}

	registration.PaymentProof = reqData.PaymentProof
	if err := db.Save(&registration).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save payment proof!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment proof saved successfully.", fiber.Map{
		"registration_id": registration.RegistrationID,
		"payment_proof":   registration.PaymentProof,
	})
}

// SearchRegistrations filters registrations by training name, registrant
// name and training date range.
func SearchRegistrations(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Table("registrations AS r").
		Select(`r.registration_id, r.training_id, t.training_name, r.user_id,
			u.fullname AS registered_by, r.training_date, r.status, r.payment_proof,
			r.completed_date, r.created_at`).
		Joins("JOIN trainings t ON t.training_id = r.training_id").
		Joins("JOIN users u ON u.id = r.user_id")

	if q := c.Query("query"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(t.training_name) LIKE ? OR LOWER(u.fullname) LIKE ? OR LOWER(r.registration_id) LIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("r.status = ?", status)
	}
	if from := c.Query("date_from"); from != "" {
		if parsed, err := time.Parse(dateLayout, from); err == nil {
			query = query.Where("r.training_date >= ?", parsed)
		}
	}
	if to := c.Query("date_to"); to != "" {
		if parsed, err := time.Parse(dateLayout, to); err == nil {
			query = query.Where("r.training_date <= ?", parsed)
		}
	}

	var rows []registrationRow
	if err := query.Order("r.training_date DESC").Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search registrations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations fetched successfully.", rows)
}

// CheckUserRegistration reports whether a user already holds a live
// registration for a training.
func CheckUserRegistration(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	trainingID := c.Params("training_id")
	db := database.Database.Db

	var count int64
	err := db.Table("registrations AS r").
		Joins("JOIN registration_participants rp ON rp.registration_id = r.registration_id").
		Where("rp.user_id = ? AND r.training_id = ? AND r.status <> ?", userID, trainingID, models.RegistrationCancelled).
		Count(&count).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check registration!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration check completed.", fiber.Map{
		"registered": count > 0,
	})
}

// DeleteRegistration removes a registration and its participants. Blocked
// when any participant already holds a certificate.
func DeleteRegistration(c *fiber.Ctx) error {
	registrationID := c.Params("registration_id")

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var registration models.Registration
	if err := tx.Where("registration_id = ?", registrationID).First(&registration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Registration not found.", nil)
	}

	var certifiedCount int64
	if err := tx.Model(&models.RegistrationParticipant{}).
		Where("registration_id = ? AND has_certificate = ?", registrationID, true).
		Count(&certifiedCount).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check participants!", nil)
	}
	if certifiedCount > 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Cannot delete registration: certificates have been issued for its participants.", nil)
	}

	if err := tx.Unscoped().Where("registration_id = ?", registrationID).Delete(&models.RegistrationParticipant{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete participants!", nil)
	}

	if err := tx.Unscoped().Delete(&registration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete registration!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration deleted successfully.", nil)
}

// DeleteMultipleRegistrations removes a selection of registrations with their
// participants. Any registration with a certified participant aborts the batch.
func DeleteMultipleRegistrations(c *fiber.Ctx) error {
	reqData := new(struct {
		IDs []string `json:"ids"`
	})
	if err := c.BodyParser(reqData); err != nil || len(reqData.IDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A non-empty list of registration IDs is required!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var certifiedCount int64
	if err := tx.Model(&models.RegistrationParticipant{}).
		Where("registration_id IN ? AND has_certificate = ?", reqData.IDs, true).
		Count(&certifiedCount).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check participants!", nil)
	}
	if certifiedCount > 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Cannot delete registrations: certificates have been issued for some participants.", nil)
	}

	if err := tx.Unscoped().Where("registration_id IN ?", reqData.IDs).Delete(&models.RegistrationParticipant{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete participants!", nil)
	}

	result := tx.Unscoped().Where("registration_id IN ?", reqData.IDs).Delete(&models.Registration{})
	if result.Error != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete registrations!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations deleted successfully.", fiber.Map{
		"deleted_count": result.RowsAffected,
	})
}

// DeleteAllCancelledRegistrations purges cancelled registrations and their
// participants.
func DeleteAllCancelledRegistrations(c *fiber.Ctx) error {
	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var cancelledIDs []string
	if err := tx.Model(&models.Registration{}).
		Where("status = ?", models.RegistrationCancelled).
		Pluck("registration_id", &cancelledIDs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch cancelled registrations!", nil)
	}

	if len(cancelledIDs) == 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No cancelled registrations to delete.", fiber.Map{"deleted_count": 0})
	}

	if err := tx.Unscoped().Where("registration_id IN ?", cancelledIDs).Delete(&models.RegistrationParticipant{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete participants!", nil)
	}

	result := tx.Unscoped().Where("registration_id IN ?", cancelledIDs).Delete(&models.Registration{})
	if result.Error != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete registrations!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cancelled registrations deleted successfully.", fiber.Map{
		"deleted_count": result.RowsAffected,
	})
}

// TriggerAutoCancel runs the overdue-registration sweep on demand.
func TriggerAutoCancel(c *fiber.Ctx) error {
	cancelled, err := utils.AutoCancelOverdueRegistrations()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel overdue registrations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overdue registrations cancelled.", fiber.Map{
		"cancelled_count": cancelled,
	})
}
