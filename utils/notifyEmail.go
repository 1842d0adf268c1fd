package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// SendSlotAssignedEmail notifies a patient that their waiting-list entry
// received a concrete slot. Callers invoke it fire-and-forget: an SMTP
// failure is logged and never fails the promotion.
func SendSlotAssignedEmail(email, patientName string, slot time.Time) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" || email == "" {
		return nil // mail not configured or patient has no address
	}

	fromEmail := os.Getenv("SMTP_USER")
	when := slot.Format("02/01/2006 15:04")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Appointment scheduled")

	m.SetBody("text/plain", "Hello "+patientName+", your appointment has been scheduled for "+when+".")

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Appointment scheduled</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				background-color: #f4f4f4;
				margin: 0;
				padding: 0;
			}
			.container {
				background-color: #ffffff;
				margin: 20px auto;
				padding: 20px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
				max-width: 600px;
			}
			h1 {
				color: #333333;
			}
			p {
				color: #666666;
			}
			.slot {
				font-weight: bold;
				color: #007bff;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Appointment scheduled</h1>
			<p>Hello ` + patientName + `, your appointment has been scheduled for:</p>
			<p class="slot">` + when + `</p>
			<p>If you cannot attend, please contact the clinic to reschedule.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)

	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		log.Printf("Invalid SMTP_PORT value: %v", err)
		return err
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
