package certificate

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an institution-issued training completion certificate,
// tied 1:1 to a registration participant.
type Certificate struct {
	gorm.Model
	CertificateID             string     `json:"certificate_id" gorm:"uniqueIndex;not null"`
	CertificateNumber         string     `json:"certificate_number" gorm:"uniqueIndex;not null"`
	RegistrationParticipantID string     `json:"registration_participant_id" gorm:"uniqueIndex;not null"`
	IssuedDate                time.Time  `json:"issued_date"`
	ExpiredDate               *time.Time `json:"expired_date"` // nil = never expires
	CertFile                  string     `json:"cert_file"`
}

// ValidityStatus reports whether a certificate is still valid at the given time.
func ValidityStatus(expiredDate *time.Time, now time.Time) string {
	if expiredDate == nil || !now.After(*expiredDate) {
		return "Valid"
	}
	return "Expired"
}
