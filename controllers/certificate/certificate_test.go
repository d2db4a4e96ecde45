package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trainhub/database"
	"trainhub/models"
	certModels "trainhub/models/certificate"
	certificateValidator "trainhub/validators/certificate"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCertificateApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/certificate/add", certificateValidator.CreateCertificate(), CreateCertificate)
	app.Put("/certificate/update", certificateValidator.UpdateCertificate(), UpdateCertificate)
	app.Delete("/certificate/:certificate_id", DeleteCertificate)
	app.Get("/certificate/list", GetCertificates)

	return app, db
}

// seedParticipant creates a user, training, completed registration and one
// participant, returning the participant's ID.
func seedParticipant(t *testing.T, db *gorm.DB, participantID string, attended *bool) {
	t.Helper()

	user := models.User{Fullname: "Andi Wijaya", Email: participantID + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	training := models.Training{TrainingID: "TRNG-TEST", TrainingName: "Forklift Operation"}
	if err := db.Where("training_id = ?", "TRNG-TEST").First(&models.Training{}).Error; err != nil {
		require.NoError(t, db.Create(&training).Error)
	}

	registration := models.Registration{
		RegistrationID: "REG-" + participantID,
		TrainingID:     "TRNG-TEST",
		UserID:         user.ID,
		TrainingDate:   time.Now().AddDate(0, 0, -30),
		Status:         models.RegistrationCompleted,
	}
	require.NoError(t, db.Create(&registration).Error)

	participant := models.RegistrationParticipant{
		RegistrationParticipantID: participantID,
		RegistrationID:            registration.RegistrationID,
		UserID:                    user.ID,
		AttendanceStatus:          attended,
	}
	require.NoError(t, db.Create(&participant).Error)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func boolPtr(b bool) *bool { return &b }

func TestCreateCertificate(t *testing.T) {
	app, db := setupCertificateApp(t)
	seedParticipant(t, db, "RPRT-1", boolPtr(true))

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
		"registration_participant_id": "RPRT-1",
		"issued_date":                 "2026-01-15",
		"certificate_number":          "CERT-2026-001",
		"cert_file":                   "https://files.example.com/cert.pdf",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cert certModels.Certificate
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&cert).Error)
	assert.Equal(t, "CERT-2026-001", cert.CertificateNumber)
	assert.Contains(t, cert.CertificateID, "CERT-")

	var participant models.RegistrationParticipant
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&participant).Error)
	assert.True(t, participant.HasCertificate)

	var training models.Training
	require.NoError(t, db.Where("training_id = ?", "TRNG-TEST").First(&training).Error)
	assert.Equal(t, 1, training.Graduates)
}

func TestCreateCertificateGeneratesNumber(t *testing.T) {
	app, db := setupCertificateApp(t)
	seedParticipant(t, db, "RPRT-1", boolPtr(true))

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
		"registration_participant_id": "RPRT-1",
		"issued_date":                 "2026-01-15",
		"certificate_number":          "-",
		"cert_file":                   "https://files.example.com/cert.pdf",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cert certModels.Certificate
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&cert).Error)
	assert.Len(t, cert.CertificateNumber, 10)
}

func TestCreateCertificateRequiresAttendance(t *testing.T) {
	app, db := setupCertificateApp(t)
	seedParticipant(t, db, "RPRT-ABSENT", boolPtr(false))
	seedParticipant(t, db, "RPRT-UNKNOWN", nil)

	for _, participantID := range []string{"RPRT-ABSENT", "RPRT-UNKNOWN"} {
		resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
			"registration_participant_id": participantID,
			"issued_date":                 "2026-01-15",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "participant %s", participantID)
	}

	var count int64
	require.NoError(t, db.Model(&certModels.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateCertificateParticipantNotFound(t *testing.T) {
	app, _ := setupCertificateApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
		"registration_participant_id": "RPRT-MISSING",
		"issued_date":                 "2026-01-15",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateCertificateRollsBackWhenTrainingMissing(t *testing.T) {
	app, db := setupCertificateApp(t)

	user := models.User{Fullname: "Andi Wijaya", Email: "orphan@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Registration{
		RegistrationID: "REG-ORPHAN",
		TrainingID:     "TRNG-GONE",
		UserID:         user.ID,
		TrainingDate:   time.Now(),
		Status:         models.RegistrationCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.RegistrationParticipant{
		RegistrationParticipantID: "RPRT-ORPHAN",
		RegistrationID:            "REG-ORPHAN",
		UserID:                    user.ID,
		AttendanceStatus:          boolPtr(true),
	}).Error)

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
		"registration_participant_id": "RPRT-ORPHAN",
		"issued_date":                 "2026-01-15",
		"cert_file":                   "https://files.example.com/cert.pdf",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// the whole transaction must roll back, insert and flag included
	var count int64
	require.NoError(t, db.Model(&certModels.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	var participant models.RegistrationParticipant
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-ORPHAN").First(&participant).Error)
	assert.False(t, participant.HasCertificate)
}

func TestUpdateCertificateClearsExpiry(t *testing.T) {
	app, db := setupCertificateApp(t)
	seedParticipant(t, db, "RPRT-1", boolPtr(true))

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
		"registration_participant_id": "RPRT-1",
		"issued_date":                 "2026-01-15",
		"expired_date":                "2028-01-15",
		"certificate_number":          "CERT-2026-002",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cert certModels.Certificate
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&cert).Error)
	require.NotNil(t, cert.ExpiredDate)

	resp = doJSON(t, app, fiber.MethodPut, "/certificate/update", fiber.Map{
		"certificate_id":              cert.CertificateID,
		"registration_participant_id": "RPRT-1",
		"expired_date":                "",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// read into a fresh value so the cleared column is not masked by stale fields
	var updated certModels.Certificate
	require.NoError(t, db.Where("certificate_id = ?", cert.CertificateID).First(&updated).Error)
	assert.Nil(t, updated.ExpiredDate)
}

func TestDeleteCertificate(t *testing.T) {
	app, db := setupCertificateApp(t)
	seedParticipant(t, db, "RPRT-1", boolPtr(true))

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", fiber.Map{
		"registration_participant_id": "RPRT-1",
		"issued_date":                 "2026-01-15",
		"certificate_number":          "CERT-2026-003",
		"cert_file":                   "https://files.example.com/cert.pdf",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cert certModels.Certificate
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&cert).Error)

	resp = doJSON(t, app, fiber.MethodDelete, "/certificate/"+cert.CertificateID, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&certModels.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	var participant models.RegistrationParticipant
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&participant).Error)
	assert.False(t, participant.HasCertificate)

	var training models.Training
	require.NoError(t, db.Where("training_id = ?", "TRNG-TEST").First(&training).Error)
	assert.Equal(t, 0, training.Graduates)
}

func TestDeleteCertificateNotFound(t *testing.T) {
	app, _ := setupCertificateApp(t)

	resp := doJSON(t, app, fiber.MethodDelete, "/certificate/CERT-MISSING", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReissueAfterDelete(t *testing.T) {
	app, db := setupCertificateApp(t)
	seedParticipant(t, db, "RPRT-1", boolPtr(true))

	body := fiber.Map{
		"registration_participant_id": "RPRT-1",
		"issued_date":                 "2026-01-15",
		"certificate_number":          "CERT-2026-004",
	}

	resp := doJSON(t, app, fiber.MethodPost, "/certificate/add", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cert certModels.Certificate
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&cert).Error)

	resp = doJSON(t, app, fiber.MethodDelete, "/certificate/"+cert.CertificateID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the hard delete must free both unique columns for re-issue
	resp = doJSON(t, app, fiber.MethodPost, "/certificate/add", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}
