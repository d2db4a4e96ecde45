package utils

import (
	"log"
	"time"

	"trainhub/database"
	"trainhub/models"

	"github.com/robfig/cron/v3"
)

// InitializeRegistrationScheduler sets up the daily auto-cancel job
func InitializeRegistrationScheduler() {
	log.Println("[REGISTRATION-SCHEDULER] Initializing registration scheduler...")

	c := cron.New(cron.WithLocation(WIB))

	// Run daily at midnight WIB to cancel overdue registrations
	c.AddFunc("0 0 * * *", func() {
		log.Println("[REGISTRATION-SCHEDULER] Running daily auto-cancel check...")
		if _, err := AutoCancelOverdueRegistrations(); err != nil {
			log.Printf("[REGISTRATION-SCHEDULER] Auto-cancel job error: %v", err)
		}
	})

	c.Start()
	log.Println("[REGISTRATION-SCHEDULER] Registration scheduler started - runs daily at 00:00 WIB")
}

// AutoCancelOverdueRegistrations cancels registrations still pending,
// confirmed or in-progress 14 days after their training date. Returns the
// number of registrations cancelled.
func AutoCancelOverdueRegistrations() (int64, error) {
	db := database.Database.Db

	cutoff := time.Now().In(WIB).AddDate(0, 0, -14)

	result := db.Model(&models.Registration{}).
		Where("status IN ?", []int{
			models.RegistrationPending,
			models.RegistrationConfirmed,
			models.RegistrationInProgress,
		}).
		Where("training_date <= ?", cutoff).
		Update("status", models.RegistrationCancelled)

	if result.Error != nil {
		return 0, result.Error
	}

	log.Printf("[REGISTRATION-SCHEDULER] Auto-cancel completed: %d registration(s) cancelled (training_date <= %s)",
		result.RowsAffected, cutoff.Format("2006-01-02"))

	return result.RowsAffected, nil
}
