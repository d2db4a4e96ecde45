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
	registrationValidator "trainhub/validators/registration"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRegistrationApp(t *testing.T) (*fiber.App, *gorm.DB, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}

	user := models.User{Fullname: "Siti Rahma", Email: "siti@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	training := models.Training{TrainingID: "TRNG-TEST", TrainingName: "Scaffolding Safety", Status: models.TrainingActive}
	require.NoError(t, db.Create(&training).Error)

	asUser := func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		return c.Next()
	}

	app := fiber.New()
	app.Post("/registration/add", registrationValidator.CreateRegistration(), asUser, CreateRegistration)
	app.Patch("/registration/:registration_id/status", registrationValidator.UpdateRegistrationStatus(), UpdateRegistrationStatus)
	app.Delete("/registration/:registration_id", DeleteRegistration)
	app.Get("/registration/check/:user_id/:training_id", CheckUserRegistration)

	return app, db, user.ID
}

func request(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
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

func TestCreateRegistration(t *testing.T) {
	app, db, userID := setupRegistrationApp(t)

	resp := request(t, app, fiber.MethodPost, "/registration/add", fiber.Map{
		"training_id":   "TRNG-TEST",
		"training_date": "2026-10-01",
		"participants":  []uint{userID},
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registration models.Registration
	require.NoError(t, db.Where("training_id = ?", "TRNG-TEST").First(&registration).Error)
	assert.Equal(t, models.RegistrationPending, registration.Status)
	assert.Equal(t, userID, registration.UserID)

	var participantCount int64
	require.NoError(t, db.Model(&models.RegistrationParticipant{}).
		Where("registration_id = ?", registration.RegistrationID).
		Count(&participantCount).Error)
	assert.EqualValues(t, 1, participantCount)
}

func TestCreateRegistrationUnknownTraining(t *testing.T) {
	app, _, userID := setupRegistrationApp(t)

	resp := request(t, app, fiber.MethodPost, "/registration/add", fiber.Map{
		"training_id":   "TRNG-MISSING",
		"training_date": "2026-10-01",
		"participants":  []uint{userID},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateRegistrationArchivedTraining(t *testing.T) {
	app, db, userID := setupRegistrationApp(t)

	require.NoError(t, db.Model(&models.Training{}).
		Where("training_id = ?", "TRNG-TEST").
		Update("status", models.TrainingArchived).Error)

	resp := request(t, app, fiber.MethodPost, "/registration/add", fiber.Map{
		"training_id":   "TRNG-TEST",
		"training_date": "2026-10-01",
		"participants":  []uint{userID},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateRegistrationUnknownParticipant(t *testing.T) {
	app, db, userID := setupRegistrationApp(t)

	resp := request(t, app, fiber.MethodPost, "/registration/add", fiber.Map{
		"training_id":   "TRNG-TEST",
		"training_date": "2026-10-01",
		"participants":  []uint{userID, 9999},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateRegistrationStatusCompleted(t *testing.T) {
	app, db, userID := setupRegistrationApp(t)

	resp := request(t, app, fiber.MethodPost, "/registration/add", fiber.Map{
		"training_id":   "TRNG-TEST",
		"training_date": "2026-10-01",
		"participants":  []uint{userID},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registration models.Registration
	require.NoError(t, db.First(&registration).Error)

	resp = request(t, app, fiber.MethodPatch, "/registration/"+registration.RegistrationID+"/status", fiber.Map{
		"status": models.RegistrationCompleted,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("registration_id = ?", registration.RegistrationID).First(&registration).Error)
	assert.Equal(t, models.RegistrationCompleted, registration.Status)
	assert.NotNil(t, registration.CompletedDate)
}

func TestDeleteRegistrationBlockedByCertificate(t *testing.T) {
	app, db, userID := setupRegistrationApp(t)

	registration := models.Registration{
		RegistrationID: "REG-1",
		TrainingID:     "TRNG-TEST",
		UserID:         userID,
		TrainingDate:   time.Now(),
		Status:         models.RegistrationCompleted,
	}
	require.NoError(t, db.Create(&registration).Error)
	require.NoError(t, db.Create(&models.RegistrationParticipant{
		RegistrationParticipantID: "RPRT-1",
		RegistrationID:            "REG-1",
		UserID:                    userID,
		HasCertificate:            true,
	}).Error)

	resp := request(t, app, fiber.MethodDelete, "/registration/REG-1", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckUserRegistration(t *testing.T) {
	app, db, userID := setupRegistrationApp(t)

	resp := request(t, app, fiber.MethodPost, "/registration/add", fiber.Map{
		"training_id":   "TRNG-TEST",
		"training_date": "2026-10-01",
		"participants":  []uint{userID},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = request(t, app, fiber.MethodGet, "/registration/check/1/TRNG-TEST", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Registered bool `json:"registered"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Data.Registered)

	// cancelled registrations do not count
	require.NoError(t, db.Model(&models.Registration{}).
		Where("training_id = ?", "TRNG-TEST").
		Update("status", models.RegistrationCancelled).Error)

	resp = request(t, app, fiber.MethodGet, "/registration/check/1/TRNG-TEST", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Data.Registered)
}
