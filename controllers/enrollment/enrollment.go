package controllers

import (
	"time"

	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"

	"github.com/gofiber/fiber/v2"
)

type attendanceUpdate struct {
	RegistrationParticipantID string `json:"registration_participant_id"`
	AttendanceStatus          *bool  `json:"attendance_status"`
}

type bulkAttendanceRequest struct {
	Updates []attendanceUpdate `json:"updates"`
}

type trainingHistoryRow struct {
	RegistrationParticipantID string     `json:"registration_participant_id"`
	RegistrationID            string     `json:"registration_id"`
	TrainingID                string     `json:"training_id"`
	TrainingName              string     `json:"training_name"`
	TrainingDate              time.Time  `json:"training_date"`
	Status                    int        `json:"status"`
	AttendanceStatus          *bool      `json:"attendance_status"`
	HasCertificate            bool       `json:"has_certificate"`
	CompletedDate             *time.Time `json:"completed_date,omitempty"`
}

type completedParticipantRow struct {
	RegistrationParticipantID string    `json:"registration_participant_id"`
	UserID                    uint      `json:"user_id"`
	Fullname                  string    `json:"fullname"`
	TrainingID                string    `json:"training_id"`
	TrainingName              string    `json:"training_name"`
	TrainingDate              time.Time `json:"training_date"`
	AttendanceStatus          *bool     `json:"attendance_status"`
	HasCertificate            bool      `json:"has_certificate"`
}

// UpdateAttendanceStatus records whether a participant attended.
func UpdateAttendanceStatus(c *fiber.Ctx) error {
	participantID := c.Params("registration_participant_id")

	reqData := new(attendanceUpdate)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.AttendanceStatus == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "attendance_status is required.", nil)
	}

	db := database.Database.Db

	var participant models.RegistrationParticipant
	if err := db.Where("registration_participant_id = ?", participantID).First(&participant).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Participant not found.", nil)
	}

	participant.AttendanceStatus = reqData.AttendanceStatus
	if err := db.Save(&participant).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update attendance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance updated successfully.", fiber.Map{
		"registration_participant_id": participant.RegistrationParticipantID,
		"attendance_status":           participant.AttendanceStatus,
	})
}

// UpdateMultipleAttendanceStatus applies a batch of attendance updates in
// one transaction. The whole batch fails if any participant is unknown.
func UpdateMultipleAttendanceStatus(c *fiber.Ctx) error {
	reqData := new(bulkAttendanceRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if len(reqData.Updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No attendance updates provided.", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	for _, update := range reqData.Updates {
		if update.AttendanceStatus == nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "attendance_status is required for every update.", nil)
		}

		result := tx.Model(&models.RegistrationParticipant{}).
			Where("registration_participant_id = ?", update.RegistrationParticipantID).
			Update("attendance_status", *update.AttendanceStatus)
		if result.Error != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update attendance!", nil)
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Participant not found: "+update.RegistrationParticipantID, nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance updated successfully.", fiber.Map{
		"updated_count": len(reqData.Updates),
	})
}

// GetCompletedParticipants lists participants of completed registrations,
// the pool a certificate issuer works from.
func GetCompletedParticipants(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Table("registration_participants AS rp").
		Select(`rp.registration_participant_id, rp.user_id, u.fullname,
			r.training_id, t.training_name, r.training_date,
			rp.attendance_status, rp.has_certificate`).
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Joins("JOIN trainings t ON t.training_id = r.training_id").
		Joins("JOIN users u ON u.id = rp.user_id").
		Where("r.status = ?", models.RegistrationCompleted)

	if trainingID := c.Query("training_id"); trainingID != "" {
		query = query.Where("r.training_id = ?", trainingID)
	}
	if c.Query("without_certificate") == "true" {
		query = query.Where("rp.has_certificate = ?", false)
	}

	var rows []completedParticipantRow
	if err := query.Order("r.training_date DESC").Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch participants!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Participants fetched successfully.", rows)
}

// GetUserTrainingHistory returns every training a user has taken part in.
func GetUserTrainingHistory(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	db := database.Database.Db

	var rows []trainingHistoryRow
	err := db.Table("registration_participants AS rp").
		Select(`rp.registration_participant_id, r.registration_id, r.training_id,
			t.training_name, r.training_date, r.status, rp.attendance_status,
			rp.has_certificate, r.completed_date`).
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Joins("JOIN trainings t ON t.training_id = r.training_id").
		Where("rp.user_id = ?", userID).
		Order("r.training_date DESC").
		Scan(&rows).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch training history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training history fetched successfully.", rows)
}
