package controllers

import (
	"errors"

	"trainhub/models"

	"gorm.io/gorm"
)

// ErrTrainingNotFound is returned when a participant cannot be resolved to a training.
var ErrTrainingNotFound = errors.New("training not found")

// RecomputeGraduates resets the owning training's graduates counter to the
// count of its participants with has_certificate = true. Always a full
// recount, never an increment, so the counter cannot drift after partial
// failures or concurrent writes.
func RecomputeGraduates(tx *gorm.DB, registrationParticipantID string) error {
	var trainingID string
	if err := tx.Table("registration_participants AS rp").
		Select("r.training_id").
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Where("rp.registration_participant_id = ?", registrationParticipantID).
		Limit(1).
		Scan(&trainingID).Error; err != nil {
		return err
	}
	if trainingID == "" {
		return ErrTrainingNotFound
	}

	var graduates int64
	if err := tx.Table("registration_participants AS rp").
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Where("r.training_id = ? AND rp.has_certificate = ?", trainingID, true).
		Count(&graduates).Error; err != nil {
		return err
	}

	result := tx.Model(&models.Training{}).
		Where("training_id = ?", trainingID).
		Update("graduates", graduates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTrainingNotFound
	}

	return nil
}
