package utils

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"trainhub/config"
)

// SendEmail sends a generic HTML email via SMTP
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// email is disabled when no sender is configured
	if from == "" {
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: TrainHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0B2447; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0B2447; line-height: 1.6; }
			.content h2 { color: #0B2447; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #576CBC; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TrainHub</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message, please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendRegistrationReceivedEmail confirms that a training registration was received
func SendRegistrationReceivedEmail(email, userName, trainingName string, trainingDate time.Time) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received your registration for <b>%s</b> on <b>%s</b>.</p>
		<div class="info-box">Our team will verify your payment and confirm your seat shortly.</div>
		<p>Thank you for registering.</p>`, userName, trainingName, trainingDate.Format("02 January 2006"))

	return SendEmail([]string{email}, "Registration Received - "+trainingName, getEmailTemplate("Registration Received", body))
}

// SendRegistrationConfirmedEmail notifies that a registration was confirmed
func SendRegistrationConfirmedEmail(email, userName, trainingName string, trainingDate time.Time) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your registration for <b>%s</b> on <b>%s</b> has been confirmed.</p>
		<div class="info-box">Please check the training schedule in your dashboard.</div>
		<p>See you in class!</p>`, userName, trainingName, trainingDate.Format("02 January 2006"))

	return SendEmail([]string{email}, "Registration Confirmed - "+trainingName, getEmailTemplate("Registration Confirmed", body))
}

// SendCertificateIssuedEmail notifies a participant that their certificate is ready
func SendCertificateIssuedEmail(email, userName, trainingName, certificateNumber string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <b>%s</b>!</p>
		<div class="info-box">Your certificate number is <b>%s</b>. You can download the certificate from your dashboard.</div>`,
		userName, trainingName, certificateNumber)

	return SendEmail([]string{email}, "Certificate Issued - "+trainingName, getEmailTemplate("Certificate Issued", body))
}

// SendUserCertificateReviewedEmail notifies the uploader about a validation decision
func SendUserCertificateReviewedEmail(email, userName, certType string, accepted bool, notes string) error {
	decision := "accepted"
	if !accepted {
		decision = "rejected"
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your uploaded certificate <b>%s</b> has been <b>%s</b>.</p>`, userName, certType, decision)
	if notes != "" {
		body += fmt.Sprintf(`<div class="info-box">Reviewer notes: %s</div>`, notes)
	}

	return SendEmail([]string{email}, "Certificate Review Result", getEmailTemplate("Certificate Review", body))
}
