package controllers

import (
	"errors"
	"log"
	"time"

	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"
	certModels "trainhub/models/certificate"
	"trainhub/utils"
	certificateValidator "trainhub/validators/certificate"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// certificateRow is the joined read model returned by list/search endpoints
type certificateRow struct {
	CertificateID             string     `json:"certificate_id"`
	CertificateNumber         string     `json:"certificate_number"`
	IssuedDate                time.Time  `json:"issued_date"`
	ExpiredDate               *time.Time `json:"expired_date"`
	CertFile                  string     `json:"cert_file"`
	RegistrationParticipantID string     `json:"registration_participant_id"`
	Fullname                  string     `json:"fullname"`
	UserPhoto                 string     `json:"user_photo"`
	RegistrationID            string     `json:"registration_id"`
	RegistrationStatus        int        `json:"registration_status"`
	TrainingDate              time.Time  `json:"training_date"`
	TrainingName              string     `json:"training_name"`
	StatusCertificate         string     `json:"status_certificate" gorm:"-"`
}

func certificateListQuery(db *gorm.DB) *gorm.DB {
	return db.Table("certificates AS c").
		Select(`c.certificate_id, c.certificate_number, c.issued_date, c.expired_date,
			c.cert_file, c.registration_participant_id,
			u.fullname, u.user_photo,
			r.registration_id, r.status AS registration_status, r.training_date,
			t.training_name`).
		Joins("JOIN registration_participants rp ON rp.registration_participant_id = c.registration_participant_id").
		Joins("JOIN registrations r ON r.registration_id = rp.registration_id").
		Joins("JOIN users u ON u.id = rp.user_id").
		Joins("JOIN trainings t ON t.training_id = r.training_id")
}

// CreateCertificate issues a training certificate for a participant.
// The participant must have attended; the insert, the has_certificate flag and
// the graduates recount all commit or roll back together.
func CreateCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCertificate").(*certificateValidator.CreateCertificateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	issuedDate, err := time.Parse(dateLayout, reqData.IssuedDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid issued date!", nil)
	}

	var expiredDate *time.Time
	if reqData.ExpiredDate != "" {
		parsed, err := time.Parse(dateLayout, reqData.ExpiredDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid expired date!", nil)
		}
		expiredDate = &parsed
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var participant models.RegistrationParticipant
	if err := tx.Where("registration_participant_id = ?", reqData.RegistrationParticipantID).
		First(&participant).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Participant not found.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create certificate!", nil)
	}

	if participant.AttendanceStatus == nil || !*participant.AttendanceStatus {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot issue certificate: participant has not attended.", nil)
	}

	var certificateNumber string
	if reqData.CertificateNumber == "" {
		certificateNumber, err = utils.GenerateUniqueCertificateNumber(tx)
	} else {
		certificateNumber, _, err = utils.NormalizeCertificateNumber(tx, reqData.CertificateNumber)
	}
	if err != nil {
		tx.Rollback()
		log.Printf("Certificate number generation error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate number!", nil)
	}

	cert := certModels.Certificate{
		CertificateID:             utils.GenerateCustomID("CERT"),
		CertificateNumber:         certificateNumber,
		RegistrationParticipantID: participant.RegistrationParticipantID,
		IssuedDate:                issuedDate,
		ExpiredDate:               expiredDate,
		CertFile:                  reqData.CertFile,
	}

	if err := tx.Create(&cert).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create certificate!", nil)
	}

	if cert.CertFile != "" {
		if err := tx.Model(&models.RegistrationParticipant{}).
			Where("registration_participant_id = ?", participant.RegistrationParticipantID).
			Update("has_certificate", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update participant!", nil)
		}
	}

	if err := RecomputeGraduates(tx, participant.RegistrationParticipantID); err != nil {
		tx.Rollback()
		if errors.Is(err, ErrTrainingNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update graduates!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create certificate!", nil)
	}

	notifyCertificateIssued(participant, cert.CertificateNumber)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate created successfully", fiber.Map{
		"certificate_id":     cert.CertificateID,
		"certificate_number": cert.CertificateNumber,
	})
}

// notifyCertificateIssued emails the participant. Failures are logged, never
// surfaced: the certificate is already committed.
func notifyCertificateIssued(participant models.RegistrationParticipant, certificateNumber string) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", participant.UserID).First(&user).Error; err != nil {
		return
	}

	var trainingName string
	db.Table("registrations AS r").
		Select("t.training_name").
		Joins("JOIN trainings t ON t.training_id = r.training_id").
		Where("r.registration_id = ?", participant.RegistrationID).
		Limit(1).
		Scan(&trainingName)

	if err := utils.SendCertificateIssuedEmail(user.Email, user.Fullname, trainingName, certificateNumber); err != nil {
		log.Printf("Failed to send certificate issued email to %s: %v", user.Email, err)
	}
}

// UpdateCertificate revises an issued certificate. Absent fields keep their
// stored values; a supplied empty expired_date clears the expiry.
func UpdateCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCertificateUpdate").(*certificateValidator.UpdateCertificateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var cert certModels.Certificate
	if err := tx.Where("certificate_id = ? AND registration_participant_id = ?",
		reqData.CertificateID, reqData.RegistrationParticipantID).
		First(&cert).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate!", nil)
	}

	if reqData.IssuedDate != nil && *reqData.IssuedDate != "" {
		parsed, err := time.Parse(dateLayout, *reqData.IssuedDate)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid issued date!", nil)
		}
		cert.IssuedDate = parsed
	}

	if reqData.ExpiredDate != nil {
		if *reqData.ExpiredDate == "" {
			cert.ExpiredDate = nil
		} else {
			parsed, err := time.Parse(dateLayout, *reqData.ExpiredDate)
			if err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid expired date!", nil)
			}
			cert.ExpiredDate = &parsed
		}
	}

	if reqData.CertFile != nil && *reqData.CertFile != "" {
		cert.CertFile = *reqData.CertFile
	}

	if err := tx.Save(&cert).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate!", nil)
	}

	if cert.CertFile != "" {
		if err := tx.Model(&models.RegistrationParticipant{}).
			Where("registration_participant_id = ?", cert.RegistrationParticipantID).
			Update("has_certificate", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update participant!", nil)
		}
	}

	if err := RecomputeGraduates(tx, cert.RegistrationParticipantID); err != nil {
		tx.Rollback()
		if errors.Is(err, ErrTrainingNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update graduates!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate updated successfully", fiber.Map{
		"certificate_id": cert.CertificateID,
	})
}

// DeleteCertificate removes an issued certificate. The participant's
// has_certificate flag is reset first (the certificate row is the only way to
// find which participant to reset), then the row is deleted and the training's
// graduates recounted.
func DeleteCertificate(c *fiber.Ctx) error {
	certificateID := c.Params("certificate_id")

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var cert certModels.Certificate
	if err := tx.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}

	if err := tx.Model(&models.RegistrationParticipant{}).
		Where("registration_participant_id = ?", cert.RegistrationParticipantID).
		Update("has_certificate", false).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update participant!", nil)
	}

	result := tx.Unscoped().Where("certificate_id = ?", certificateID).Delete(&certModels.Certificate{})
	if result.Error != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}

	if err := RecomputeGraduates(tx, cert.RegistrationParticipantID); err != nil {
		tx.Rollback()
		if errors.Is(err, ErrTrainingNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update graduates!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate deleted successfully", nil)
}

// GetCertificates returns all issued certificates, optionally filtered by
// computed validity status (Valid/Expired).
func GetCertificates(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && status != "Valid" && status != "Expired" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status parameter. Use 'Valid' or 'Expired'.", nil)
	}

	var rows []certificateRow
	if err := certificateListQuery(database.Database.Db).
		Order("c.issued_date DESC, u.fullname ASC").
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	now := time.Now()
	filtered := make([]certificateRow, 0, len(rows))
	for _, row := range rows {
		row.StatusCertificate = certModels.ValidityStatus(row.ExpiredDate, now)
		if status == "" || row.StatusCertificate == status {
			filtered = append(filtered, row)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully", filtered)
}

// GetCertificateByID returns a single certificate with its joined context
func GetCertificateByID(c *fiber.Ctx) error {
	certificateID := c.Params("certificate_id")

	var rows []certificateRow
	if err := certificateListQuery(database.Database.Db).
		Where("c.certificate_id = ?", certificateID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}

	if len(rows) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}

	row := rows[0]
	row.StatusCertificate = certModels.ValidityStatus(row.ExpiredDate, time.Now())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully", row)
}

// SearchCertificates filters certificates on various criteria
func SearchCertificates(c *fiber.Ctx) error {
	query := certificateListQuery(database.Database.Db)

	if q := c.Query("query"); q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"LOWER(u.fullname) LIKE LOWER(?) OR LOWER(c.certificate_number) LIKE LOWER(?) OR LOWER(t.training_name) LIKE LOWER(?)",
			like, like, like,
		)
	}
	if trainingName := c.Query("training_name"); trainingName != "" {
		query = query.Where("LOWER(t.training_name) LIKE LOWER(?)", "%"+trainingName+"%")
	}
	if number := c.Query("certificate_number"); number != "" {
		query = query.Where("LOWER(c.certificate_number) LIKE LOWER(?)", "%"+number+"%")
	}
	if fullname := c.Query("fullname"); fullname != "" {
		query = query.Where("LOWER(u.fullname) LIKE LOWER(?)", "%"+fullname+"%")
	}
	if issuedDate := c.Query("issued_date"); issuedDate != "" {
		query = query.Where("c.issued_date = ?", issuedDate)
	}
	if from := c.Query("issued_date_from"); from != "" {
		query = query.Where("c.issued_date >= ?", from)
	}
	if to := c.Query("issued_date_to"); to != "" {
		query = query.Where("c.issued_date <= ?", to)
	}
	if from := c.Query("expired_date_from"); from != "" {
		query = query.Where("c.expired_date >= ?", from)
	}
	if to := c.Query("expired_date_to"); to != "" {
		query = query.Where("c.expired_date <= ?", to)
	}

	var rows []certificateRow
	if err := query.Order("c.issued_date DESC, u.fullname ASC").Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search certificates!", nil)
	}

	now := time.Now()
	for i := range rows {
		rows[i].StatusCertificate = certModels.ValidityStatus(rows[i].ExpiredDate, now)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates searched successfully", fiber.Map{
		"total": len(rows),
		"data":  rows,
	})
}

// DownloadCertificate streams the stored certificate file for a participant
func DownloadCertificate(c *fiber.Ctx) error {
	participantID := c.Params("registration_participant_id")

	var cert certModels.Certificate
	if err := database.Database.Db.
		Where("registration_participant_id = ?", participantID).
		First(&cert).Error; err != nil || cert.CertFile == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate file not found", nil)
	}

	resp, err := resty.New().R().Get(cert.CertFile)
	if err != nil || resp.StatusCode() != fiber.StatusOK {
		log.Printf("Certificate download error for %s: %v", cert.CertificateID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate file!", nil)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+cert.CertificateNumber+`.pdf"`)
	return c.Send(resp.Body())
}
