package utils

import (
	"testing"

	"trainhub/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestNormalizeCertificateNumberClean(t *testing.T) {
	db := openTestDB(t)

	number, original, err := NormalizeCertificateNumber(db, "CERT-2024-001")
	require.NoError(t, err)
	assert.Equal(t, "CERT-2024-001", number)
	assert.Nil(t, original)
}

func TestNormalizeCertificateNumberTrimsWhitespace(t *testing.T) {
	db := openTestDB(t)

	number, original, err := NormalizeCertificateNumber(db, "  CERT-2024-001  ")
	require.NoError(t, err)
	assert.Equal(t, "CERT-2024-001", number)
	assert.Nil(t, original)
}

func TestNormalizeCertificateNumberStripsQuotes(t *testing.T) {
	db := openTestDB(t)

	number, original, err := NormalizeCertificateNumber(db, `"CERT-2024-001"`)
	require.NoError(t, err)
	assert.Equal(t, "CERT-2024-001", number)
	assert.Nil(t, original)
}

func TestNormalizeCertificateNumberSanitizes(t *testing.T) {
	db := openTestDB(t)

	number, original, err := NormalizeCertificateNumber(db, "CERT/2024 001")
	require.NoError(t, err)
	assert.Equal(t, "CERT_2024_001", number)
	require.NotNil(t, original)
	assert.Equal(t, "CERT/2024 001", *original)
}

func TestNormalizeCertificateNumberPlaceholder(t *testing.T) {
	db := openTestDB(t)

	for _, raw := range []string{"-", "", "ab", "  -  "} {
		number, original, err := NormalizeCertificateNumber(db, raw)
		require.NoError(t, err, "input %q", raw)
		assert.Len(t, number, 10, "input %q", raw)
		require.NotNil(t, original, "input %q", raw)
		assert.Equal(t, "-", *original, "input %q", raw)
	}
}

func TestNormalizeCertificateNumberQuotedPlaceholder(t *testing.T) {
	db := openTestDB(t)

	number, original, err := NormalizeCertificateNumber(db, `"-"`)
	require.NoError(t, err)
	assert.Len(t, number, 10)
	require.NotNil(t, original)
	assert.Equal(t, "-", *original)
}
