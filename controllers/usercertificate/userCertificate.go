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
	userCertificateValidator "trainhub/validators/usercertificate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// userCertificateRow is the joined read model for list/search endpoints
type userCertificateRow struct {
	UserCertificateID string     `json:"user_certificate_id"`
	UserID            *uint      `json:"user_id"`
	Fullname          string     `json:"fullname"`
	CertType          string     `json:"cert_type"`
	Issuer            string     `json:"issuer"`
	IssuedDate        time.Time  `json:"issued_date"`
	ExpiredDate       *time.Time `json:"expired_date"`
	CertificateNumber string     `json:"certificate_number"`
	OriginalNumber    *string    `json:"original_number"`
	CertFiles         string     `json:"cert_files"`
	Status            int        `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	VerifiedBy        *uint      `json:"verified_by"`
	VerifiedByName    string     `json:"verified_by_name"`
	VerificationDate  *time.Time `json:"verification_date"`
	Notes             string     `json:"notes"`
	ValidityStatus    string     `json:"validity_status" gorm:"-"`
}

func userCertificateListQuery(db *gorm.DB) *gorm.DB {
	return db.Table("user_certificates AS uc").
		Select(`uc.user_certificate_id, uc.user_id,
			COALESCE(u.fullname, uc.fullname) AS fullname,
			uc.cert_type, uc.issuer, uc.issued_date, uc.expired_date,
			uc.certificate_number, uc.original_number, uc.cert_files,
			uc.status, uc.created_at, uc.verified_by,
			COALESCE(admin.fullname, admin.email) AS verified_by_name,
			uc.verification_date, uc.notes`).
		Joins("LEFT JOIN users u ON u.id = uc.user_id").
		Joins("LEFT JOIN users admin ON admin.id = uc.verified_by")
}

// acceptedNumberConflictExists reports whether another Accepted certificate
// already carries this number. The check is four-way: both the sanitized and
// the original value of the target are matched against both columns, so a raw
// value colliding with someone else's sanitized value is still caught.
// OriginalNumber falls back to the certificate number when absent.
func acceptedNumberConflictExists(tx *gorm.DB, excludeID, number string, original *string) (bool, error) {
	fallback := number
	if original != nil {
		fallback = *original
	}

	var count int64
	err := tx.Model(&certModels.UserCertificate{}).
		Where("status = ?", certModels.StatusAccepted).
		Where("user_certificate_id <> ?", excludeID).
		Where("certificate_number = ? OR original_number = ? OR certificate_number = ? OR original_number = ?",
			number, number, fallback, fallback).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func parseCertificateDates(issued, expired string) (time.Time, *time.Time, error) {
	issuedDate, err := time.Parse(dateLayout, issued)
	if err != nil {
		return time.Time{}, nil, err
	}

	var expiredDate *time.Time
	if expired != "" {
		parsed, err := time.Parse(dateLayout, expired)
		if err != nil {
			return time.Time{}, nil, err
		}
		expiredDate = &parsed
	}
	return issuedDate, expiredDate, nil
}

// CreateUserCertificate stores a self-uploaded external certificate.
// Status is always Pending; an admin decides later.
func CreateUserCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserCertificate").(*userCertificateValidator.CreateUserCertificateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	issuedDate, expiredDate, err := parseCertificateDates(reqData.IssuedDate, reqData.ExpiredDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid date format!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	finalNumber, originalNumber, err := utils.NormalizeCertificateNumber(tx, reqData.CertificateNumber)
	if err != nil {
		tx.Rollback()
		log.Printf("Certificate number normalization error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process certificate number!", nil)
	}

	cert := certModels.UserCertificate{
		UserCertificateID: utils.GenerateCustomID("UCRT"),
		UserID:            reqData.UserID,
		Fullname:          reqData.Fullname,
		CertType:          reqData.CertType,
		Issuer:            reqData.Issuer,
		IssuedDate:        issuedDate,
		ExpiredDate:       expiredDate,
		CertificateNumber: finalNumber,
		OriginalNumber:    originalNumber,
		CertFiles:         certModels.JoinFiles(reqData.CertFiles),
		Status:            certModels.StatusPending,
	}

	if err := tx.Create(&cert).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user certificate!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User certificate created successfully", fiber.Map{
		"user_certificate_id": cert.UserCertificateID,
	})
}

// CreateUserCertificateByAdmin stores a certificate that is already verified.
// The row is born Accepted, so the duplicate-number check runs before insert:
// a non-placeholder number may collide with an existing accepted one.
func CreateUserCertificateByAdmin(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedUserCertificate").(*userCertificateValidator.CreateUserCertificateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	issuedDate, expiredDate, err := parseCertificateDates(reqData.IssuedDate, reqData.ExpiredDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid date format!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	finalNumber, originalNumber, err := utils.NormalizeCertificateNumber(tx, reqData.CertificateNumber)
	if err != nil {
		tx.Rollback()
		log.Printf("Certificate number normalization error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process certificate number!", nil)
	}

	conflict, err := acceptedNumberConflictExists(tx, "", finalNumber, originalNumber)
	if err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check certificate number!", nil)
	}
	if conflict {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Another certificate with this number has already been validated.", nil)
	}

	now := time.Now()
	cert := certModels.UserCertificate{
		UserCertificateID: utils.GenerateCustomID("UCRT"),
		UserID:            reqData.UserID,
		Fullname:          reqData.Fullname,
		CertType:          reqData.CertType,
		Issuer:            reqData.Issuer,
		IssuedDate:        issuedDate,
		ExpiredDate:       expiredDate,
		CertificateNumber: finalNumber,
		OriginalNumber:    originalNumber,
		CertFiles:         certModels.JoinFiles(reqData.CertFiles),
		Status:            certModels.StatusAccepted,
		VerifiedBy:        &adminID,
		VerificationDate:  &now,
		Notes:             reqData.Notes,
	}

	if err := tx.Create(&cert).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create validated certificate!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create validated certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User certificate (admin-verified) created successfully", fiber.Map{
		"user_certificate_id": cert.UserCertificateID,
	})
}

// UpdateUserCertificateStatus applies an admin review decision. An acceptance
// runs the duplicate-number conflict check inside the same transaction as the
// update; on conflict nothing changes.
func UpdateUserCertificateStatus(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedStatusUpdate").(*userCertificateValidator.UpdateUserCertificateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	var cert certModels.UserCertificate
	if err := tx.Where("user_certificate_id = ?", reqData.UserCertificateID).First(&cert).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate status!", nil)
	}

	if reqData.Status == certModels.StatusAccepted {
		conflict, err := acceptedNumberConflictExists(tx, cert.UserCertificateID, cert.CertificateNumber, cert.OriginalNumber)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check certificate number!", nil)
		}
		if conflict {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Another certificate with this number has already been validated.", nil)
		}
	}

	now := time.Now()
	cert.Status = reqData.Status
	cert.VerifiedBy = &adminID
	cert.VerificationDate = &now
	cert.Notes = reqData.Notes

	if err := tx.Save(&cert).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate status!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate status!", nil)
	}

	notifyCertificateReviewed(cert)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate status updated successfully", cert)
}

// notifyCertificateReviewed emails the uploader about the decision, best effort.
func notifyCertificateReviewed(cert certModels.UserCertificate) {
	if cert.UserID == nil {
		return
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", *cert.UserID).First(&user).Error; err != nil {
		return
	}

	accepted := cert.Status == certModels.StatusAccepted
	if err := utils.SendUserCertificateReviewedEmail(user.Email, user.Fullname, cert.CertType, accepted, cert.Notes); err != nil {
		log.Printf("Failed to send certificate review email to %s: %v", user.Email, err)
	}
}

// GetUserCertificates returns all user-uploaded certificates
func GetUserCertificates(c *fiber.Ctx) error {
	var rows []userCertificateRow
	if err := userCertificateListQuery(database.Database.Db).
		Order("uc.created_at DESC").
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to retrieve certificates!", nil)
	}

	now := time.Now()
	for i := range rows {
		rows[i].ValidityStatus = certModels.ValidityStatus(rows[i].ExpiredDate, now)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates retrieved", rows)
}

// GetUserCertificateByID returns one user-uploaded certificate
func GetUserCertificateByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var rows []userCertificateRow
	if err := userCertificateListQuery(database.Database.Db).
		Where("uc.user_certificate_id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to retrieve certificate!", nil)
	}

	if len(rows) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}

	row := rows[0]
	row.ValidityStatus = certModels.ValidityStatus(row.ExpiredDate, time.Now())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate retrieved", row)
}

var allowedUserCertificateSortFields = map[string]bool{
	"fullname":           true,
	"cert_type":          true,
	"issuer":             true,
	"issued_date":        true,
	"expired_date":       true,
	"certificate_number": true,
	"original_number":    true,
	"status":             true,
	"created_at":         true,
}

// SearchUserCertificates filters user certificates on multiple criteria
func SearchUserCertificates(c *fiber.Ctx) error {
	query := userCertificateListQuery(database.Database.Db)

	if fullname := c.Query("fullname"); fullname != "" {
		query = query.Where("LOWER(COALESCE(u.fullname, uc.fullname)) LIKE LOWER(?)", "%"+fullname+"%")
	}
	if certType := c.Query("cert_type"); certType != "" {
		query = query.Where("LOWER(uc.cert_type) LIKE LOWER(?)", "%"+certType+"%")
	}
	if issuer := c.Query("issuer"); issuer != "" {
		query = query.Where("LOWER(uc.issuer) LIKE LOWER(?)", "%"+issuer+"%")
	}
	if number := c.Query("certificate_number"); number != "" {
		query = query.Where("LOWER(uc.certificate_number) LIKE LOWER(?)", "%"+number+"%")
	}
	if original := c.Query("original_number"); original != "" {
		query = query.Where("LOWER(COALESCE(uc.original_number, '')) LIKE LOWER(?)", "%"+original+"%")
	}
	if status := c.QueryInt("status"); status != 0 {
		query = query.Where("uc.status = ?", status)
	}
	if issuedDate := c.Query("issued_date"); issuedDate != "" {
		query = query.Where("uc.issued_date = ?", issuedDate)
	}
	if q := c.Query("query"); q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"LOWER(COALESCE(u.fullname, uc.fullname)) LIKE LOWER(?) OR LOWER(uc.cert_type) LIKE LOWER(?) OR LOWER(uc.certificate_number) LIKE LOWER(?) OR LOWER(COALESCE(uc.original_number, '')) LIKE LOWER(?)",
			like, like, like, like,
		)
	}

	sortField := c.Query("sort_by", "created_at")
	if !allowedUserCertificateSortFields[sortField] {
		sortField = "created_at"
	}
	sortOrder := "DESC"
	if c.Query("sort_order") == "asc" {
		sortOrder = "ASC"
	}

	var rows []userCertificateRow
	if err := query.Order(sortField + " " + sortOrder).Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search certificates!", nil)
	}

	now := time.Now()
	for i := range rows {
		rows[i].ValidityStatus = certModels.ValidityStatus(rows[i].ExpiredDate, now)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Search results", rows)
}

// DeleteUserCertificate removes a single user-uploaded certificate
func DeleteUserCertificate(c *fiber.Ctx) error {
	id := c.Params("user_certificate_id")

	result := database.Database.Db.Unscoped().
		Where("user_certificate_id = ?", id).
		Delete(&certModels.UserCertificate{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate deleted successfully", nil)
}

// DeleteMultipleUserCertificates removes a selection of certificates
func DeleteMultipleUserCertificates(c *fiber.Ctx) error {
	reqData := new(struct {
		IDs []string `json:"ids"`
	})
	if err := c.BodyParser(reqData); err != nil || len(reqData.IDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A non-empty list of certificate IDs is required!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("user_certificate_id IN ?", reqData.IDs).
		Delete(&certModels.UserCertificate{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates deleted successfully", fiber.Map{
		"deleted": result.RowsAffected,
	})
}

// DeleteAllRejectedUserCertificates clears every rejected certificate
func DeleteAllRejectedUserCertificates(c *fiber.Ctx) error {
	result := database.Database.Db.Unscoped().
		Where("status = ?", certModels.StatusRejected).
		Delete(&certModels.UserCertificate{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rejected certificates deleted successfully", fiber.Map{
		"deleted": result.RowsAffected,
	})
}
