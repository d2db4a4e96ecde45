package models

import (
	"time"

	"gorm.io/gorm"
)

// Training status values
const (
	TrainingActive   = 1
	TrainingArchived = 2
)

// Training represents a scheduled training program
type Training struct {
	gorm.Model
	TrainingID     string     `json:"training_id" gorm:"uniqueIndex;not null"`
	TrainingName   string     `json:"training_name"`
	Description    string     `json:"description"`
	Duration       int64      `json:"duration" gorm:"default:0"` // hours
	TrainingFees   float64    `json:"training_fees"`
	Discount       float64    `json:"discount" gorm:"default:0"`        // percent
	ValidityPeriod int        `json:"validity_period" gorm:"default:0"` // months, 0 = no expiry
	AvailableDate  *time.Time `json:"available_date"`
	TermCondition  string     `json:"term_condition"`
	Level          string     `json:"level"`
	Status         int        `json:"status" gorm:"default:1"` // 1 active, 2 archived
	Skills         string     `json:"skills"`                  // comma separated
	Images         string     `json:"images"`                  // comma separated URLs
	Graduates      int        `json:"graduates" gorm:"default:0"`
	CreatedBy      uint       `json:"created_by"`
}

// FinalPrice returns the discounted fee, or the full fee when no valid
// discount applies.
func (t *Training) FinalPrice() float64 {
	if t.Discount <= 0 || t.Discount >= 100 {
		return t.TrainingFees
	}
	return t.TrainingFees - (t.TrainingFees*t.Discount)/100
}
