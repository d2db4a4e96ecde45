package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"trainhub/database"
	"trainhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupEnrollmentApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Patch("/enrollment/attendance/:registration_participant_id", UpdateAttendanceStatus)
	app.Patch("/enrollment/attendance", UpdateMultipleAttendanceStatus)
	app.Get("/enrollment/completed", GetCompletedParticipants)
	app.Get("/enrollment/history/:user_id", GetUserTrainingHistory)

	return app, db
}

func seedEnrollment(t *testing.T, db *gorm.DB) uint {
	t.Helper()

	user := models.User{Fullname: "Dewi Lestari", Email: "dewi@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.Training{
		TrainingID:   "TRNG-TEST",
		TrainingName: "First Aid",
	}).Error)

	require.NoError(t, db.Create(&models.Registration{
		RegistrationID: "REG-1",
		TrainingID:     "TRNG-TEST",
		UserID:         user.ID,
		TrainingDate:   time.Now().AddDate(0, 0, -7),
		Status:         models.RegistrationCompleted,
	}).Error)

	require.NoError(t, db.Create(&models.RegistrationParticipant{
		RegistrationParticipantID: "RPRT-1",
		RegistrationID:            "REG-1",
		UserID:                    user.ID,
	}).Error)

	return user.ID
}

func patchJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(fiber.MethodPatch, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUpdateAttendanceStatus(t *testing.T) {
	app, db := setupEnrollmentApp(t)
	seedEnrollment(t, db)

	resp := patchJSON(t, app, "/enrollment/attendance/RPRT-1", fiber.Map{
		"attendance_status": true,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var participant models.RegistrationParticipant
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&participant).Error)
	require.NotNil(t, participant.AttendanceStatus)
	assert.True(t, *participant.AttendanceStatus)
}

func TestUpdateAttendanceStatusRequiresValue(t *testing.T) {
	app, db := setupEnrollmentApp(t)
	seedEnrollment(t, db)

	resp := patchJSON(t, app, "/enrollment/attendance/RPRT-1", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBulkAttendanceRollsBackOnUnknownParticipant(t *testing.T) {
	app, db := setupEnrollmentApp(t)
	seedEnrollment(t, db)

	resp := patchJSON(t, app, "/enrollment/attendance", fiber.Map{
		"updates": []fiber.Map{
			{"registration_participant_id": "RPRT-1", "attendance_status": true},
			{"registration_participant_id": "RPRT-MISSING", "attendance_status": true},
		},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var participant models.RegistrationParticipant
	require.NoError(t, db.Where("registration_participant_id = ?", "RPRT-1").First(&participant).Error)
	assert.Nil(t, participant.AttendanceStatus)
}

func TestGetCompletedParticipants(t *testing.T) {
	app, db := setupEnrollmentApp(t)
	seedEnrollment(t, db)

	req := httptest.NewRequest(fiber.MethodGet, "/enrollment/completed?training_id=TRNG-TEST", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []completedParticipantRow `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "RPRT-1", body.Data[0].RegistrationParticipantID)
	assert.Equal(t, "First Aid", body.Data[0].TrainingName)
}

func TestGetUserTrainingHistory(t *testing.T) {
	app, db := setupEnrollmentApp(t)
	userID := seedEnrollment(t, db)

	req := httptest.NewRequest(fiber.MethodGet, "/enrollment/history/"+strconv.FormatUint(uint64(userID), 10), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []trainingHistoryRow `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "TRNG-TEST", body.Data[0].TrainingID)
}
