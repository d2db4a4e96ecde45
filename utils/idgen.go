package utils

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WIB is the reporting timezone (UTC+7); all generated identifiers embed
// timestamps in this zone.
var WIB = time.FixedZone("WIB", 7*60*60)

// ErrGenerationExhausted is returned when the unique-number retry limit runs out.
var ErrGenerationExhausted = errors.New("certificate number generation exhausted")

const maxNumberAttempts = 50

const numberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCustomID produces "PREFIX-YYYYMMDDHHMM-XXXXXX" where XXXXXX is a
// 6-char uppercase random segment. Collision probability is negligible, so no
// uniqueness check is done here (certificate numbers are checked separately).
func GenerateCustomID(prefix string) string {
	timestamp := time.Now().In(WIB).Format("200601021504")
	randomStr := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + timestamp + "-" + randomStr
}

// randomNumberSegment draws n characters from the uppercase alphanumeric
// charset using the shared package-level source, which is safe for
// concurrent callers.
func randomNumberSegment(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(numberCharset[rand.Intn(len(numberCharset))])
	}
	return sb.String()
}

// GenerateUniqueNumber draws 10-char uppercase alphanumeric candidates
// (YYMM prefix + 6 random chars) until taken() reports the candidate free.
// Gives up after a bounded number of attempts.
func GenerateUniqueNumber(taken func(candidate string) (bool, error)) (string, error) {
	prefix := time.Now().In(WIB).Format("0601")

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := prefix + randomNumberSegment(6)

		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrGenerationExhausted
}

// GenerateUniqueCertificateNumber generates a certificate number not present
// in either certificate table.
func GenerateUniqueCertificateNumber(db *gorm.DB) (string, error) {
	return GenerateUniqueNumber(func(candidate string) (bool, error) {
		var count int64
		if err := db.Table("certificates").
			Where("certificate_number = ?", candidate).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}

		if err := db.Table("user_certificates").
			Where("certificate_number = ?", candidate).
			Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
}
