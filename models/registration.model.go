package models

import (
	"time"

	"gorm.io/gorm"
)

// Registration status values
const (
	RegistrationPending    = 1
	RegistrationConfirmed  = 2
	RegistrationInProgress = 3
	RegistrationCompleted  = 4
	RegistrationCancelled  = 5
)

// Registration is a booking of one or more participants into a training
type Registration struct {
	gorm.Model
	RegistrationID string     `json:"registration_id" gorm:"uniqueIndex;not null"`
	TrainingID     string     `json:"training_id" gorm:"index;not null"`
	UserID         uint       `json:"user_id" gorm:"index"`
	TrainingDate   time.Time  `json:"training_date"`
	Status         int        `json:"status" gorm:"default:1"`
	PaymentProof   string     `json:"payment_proof"`
	CompletedDate  *time.Time `json:"completed_date"`
}

// RegistrationParticipant is one attendee under a registration.
// AttendanceStatus is tri-state: nil = not yet recorded.
type RegistrationParticipant struct {
	gorm.Model
	RegistrationParticipantID string `json:"registration_participant_id" gorm:"uniqueIndex;not null"`
	RegistrationID            string `json:"registration_id" gorm:"index;not null"`
	UserID                    uint   `json:"user_id" gorm:"index"`
	AttendanceStatus          *bool  `json:"attendance_status"`
	HasCertificate            bool   `json:"has_certificate" gorm:"default:false"`
}
