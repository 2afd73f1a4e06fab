package alerts

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

type smtpConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var mailCfg smtpConfig
var mailProvider string

// ConfigureMailerFromEnv loads the mail transport from the environment.
// SMTP needs SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and
// SMTP_FROM; alternatively MAIL_PROVIDER=plunk routes through the Plunk API.
func ConfigureMailerFromEnv() error {
	mailProvider = os.Getenv("MAIL_PROVIDER")
	mailCfg = smtpConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if mailCfg.From == "" {
		mailCfg.From = "TuneDelivery <no-reply@tunedelivery.app>"
	}
	if mailProvider == "plunk" {
		// Plunk is configured lazily in sendViaPlunk
		return nil
	}
	if mailCfg.Host == "" || mailCfg.Port == "" || mailCfg.Username == "" || mailCfg.Password == "" {
		return fmt.Errorf("smtp not configured: set SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD (or set MAIL_PROVIDER=plunk)")
	}
	return nil
}

func buildMessage(to, subject, body string) string {
	contentType := "text/plain"
	lb := strings.ToLower(body)
	if strings.Contains(lb, "<html") || strings.Contains(lb, "<body") || strings.Contains(lb, "<!doctype html") {
		contentType = "text/html"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", mailCfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	if rt := os.Getenv("MAIL_REPLY_TO"); rt != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", rt)
	}
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s; charset=\"utf-8\"\r\n", contentType)
	msg.WriteString("\r\n" + body + "\r\n")
	return msg.String()
}

// SendEmail delivers one message through whichever provider is configured.
func SendEmail(to, subject, body string) error {
	if mailCfg.Host == "" && mailProvider == "" {
		_ = ConfigureMailerFromEnv()
	}

	if mailProvider == "plunk" || (os.Getenv("PLUNK_API_KEY") != "" && mailProvider == "") {
		return sendViaPlunk(to, subject, body)
	}

	addr := mailCfg.Host + ":" + mailCfg.Port
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: mailCfg.Host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, mailCfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", mailCfg.Username, mailCfg.Password, mailCfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(mailCfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write([]byte(buildMessage(to, subject, body))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}
