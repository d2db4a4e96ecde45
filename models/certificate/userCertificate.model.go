package certificate

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User certificate validation status values
const (
	StatusPending  = 1
	StatusAccepted = 2
	StatusRejected = 3
)

// UserCertificate is a self-reported, externally issued certificate uploaded
// by a user and reviewed by an admin.
type UserCertificate struct {
	gorm.Model
	UserCertificateID string     `json:"user_certificate_id" gorm:"uniqueIndex;not null"`
	UserID            *uint      `json:"user_id" gorm:"index"` // nil until linked to an account
	Fullname          string     `json:"fullname"`
	CertType          string     `json:"cert_type"`
	Issuer            string     `json:"issuer"`
	IssuedDate        time.Time  `json:"issued_date"`
	ExpiredDate       *time.Time `json:"expired_date"`
	CertificateNumber string     `json:"certificate_number" gorm:"index;not null"`
	OriginalNumber    *string    `json:"original_number"` // pre-sanitization value, kept for audit
	CertFiles         string     `json:"cert_files"`      // 1-3 file URLs, comma separated
	Status            int        `json:"status" gorm:"default:1"`
	VerifiedBy        *uint      `json:"verified_by"`
	VerificationDate  *time.Time `json:"verification_date"`
	Notes             string     `json:"notes"`
}

// FileList splits the stored cert file column into individual URLs.
func (uc *UserCertificate) FileList() []string {
	if uc.CertFiles == "" {
		return nil
	}
	return strings.Split(uc.CertFiles, ",")
}

// JoinFiles builds the stored column value from a list of file URLs.
func JoinFiles(files []string) string {
	return strings.Join(files, ",")
}
