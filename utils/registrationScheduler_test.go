package utils

import (
	"testing"
	"time"

	"trainhub/database"
	"trainhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRegistration(t *testing.T, id string, status int, trainingDate time.Time) {
	t.Helper()
	reg := models.Registration{
		RegistrationID: id,
		TrainingID:     "TRNG-TEST",
		UserID:         1,
		TrainingDate:   trainingDate,
		Status:         status,
	}
	require.NoError(t, database.Database.Db.Create(&reg).Error)
}

func TestAutoCancelOverdueRegistrations(t *testing.T) {
	db := openTestDB(t)
	database.Database = database.DbInstance{Db: db}

	old := time.Now().AddDate(0, 0, -30)
	recent := time.Now().AddDate(0, 0, -3)

	seedRegistration(t, "REG-OLD-PENDING", models.RegistrationPending, old)
	seedRegistration(t, "REG-OLD-CONFIRMED", models.RegistrationConfirmed, old)
	seedRegistration(t, "REG-OLD-INPROGRESS", models.RegistrationInProgress, old)
	seedRegistration(t, "REG-OLD-COMPLETED", models.RegistrationCompleted, old)
	seedRegistration(t, "REG-RECENT-PENDING", models.RegistrationPending, recent)

	cancelled, err := AutoCancelOverdueRegistrations()
	require.NoError(t, err)
	assert.EqualValues(t, 3, cancelled)

	var statuses []int
	require.NoError(t, db.Model(&models.Registration{}).
		Where("registration_id IN ?", []string{"REG-OLD-PENDING", "REG-OLD-CONFIRMED", "REG-OLD-INPROGRESS"}).
		Pluck("status", &statuses).Error)
	for _, status := range statuses {
		assert.Equal(t, models.RegistrationCancelled, status)
	}

	var completed models.Registration
	require.NoError(t, db.Where("registration_id = ?", "REG-OLD-COMPLETED").First(&completed).Error)
	assert.Equal(t, models.RegistrationCompleted, completed.Status)

	var pending models.Registration
	require.NoError(t, db.Where("registration_id = ?", "REG-RECENT-PENDING").First(&pending).Error)
	assert.Equal(t, models.RegistrationPending, pending.Status)
}
