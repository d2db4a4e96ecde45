package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainhub/config"
	"trainhub/database"
	"trainhub/models"
	authValidator "trainhub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig.SaltRound = 4
	config.AppConfig.JWTKey = "test-secret"

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.SignUp(), SignUp)
	app.Post("/auth/login", authValidator.Login(), Login)

	return app, db
}

func authRequest(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSignUpAndLogin(t *testing.T) {
	app, db := setupAuthApp(t)

	resp := authRequest(t, app, "/auth/signup", fiber.Map{
		"fullname": "Rina Kusuma",
		"email":    "Rina@Example.com",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, db.Where("email = ?", "rina@example.com").First(&user).Error)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "supersecret", user.Password)

	resp = authRequest(t, app, "/auth/login", fiber.Map{
		"email":    "rina@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Data.Token)

	require.NoError(t, db.Where("email = ?", "rina@example.com").First(&user).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	app, _ := setupAuthApp(t)

	payload := fiber.Map{
		"fullname": "Rina Kusuma",
		"email":    "rina@example.com",
		"password": "supersecret",
	}

	resp := authRequest(t, app, "/auth/signup", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = authRequest(t, app, "/auth/signup", payload)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := authRequest(t, app, "/auth/signup", fiber.Map{
		"fullname": "Rina Kusuma",
		"email":    "rina@example.com",
		"password": "supersecret",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = authRequest(t, app, "/auth/login", fiber.Map{
		"email":    "rina@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSignUpValidation(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := authRequest(t, app, "/auth/signup", fiber.Map{
		"fullname": "ab",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
