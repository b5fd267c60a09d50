// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendTemporaryPasswordEmail delivers a provisioned account's one-time
// password over SMTP. Delivery is best-effort: callers log failures and
// continue, since the password is also returned in the creation response.
func SendTemporaryPasswordEmail(email, name, password string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	senderEmail := fromEmail
	if senderEmail == "" {
		senderEmail = smtpUser
	}

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		return fmt.Errorf("SMTP configuration is incomplete: check SMTP_HOST, SMTP_USER and SMTP_PASS")
	}

	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if portNum, err := strconv.Atoi(portStr); err == nil && portNum > 0 {
			smtpPort = portNum
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your account has been created")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you.\n\nTemporary password: %s\n\nPlease log in and change it.\n",
		name, password,
	))

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
