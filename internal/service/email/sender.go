// internal/service/email/sender.go
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds the SMTP settings. An empty Host disables mail.
type Config struct {
	Host     string
	Port     string
	User     string
	Pass     string
	FromName string
	Secure   bool
}

// Sender delivers HTML mail over SMTP.
type Sender struct {
	cfg Config
}

func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Enabled reports whether an SMTP host is configured.
func (s *Sender) Enabled() bool {
	return s.cfg.Host != ""
}

// Send sends an email with a subject and an HTML body.
func (s *Sender) Send(to, subject, bodyHTML string) error {
	msg := buildMessage(s.from(), to, subject, bodyHTML)
	serverAddr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	if !s.cfg.Secure {
		// STARTTLS on 587
		if err := smtp.SendMail(serverAddr, auth, s.cfg.User, []string{to}, msg); err != nil {
			return fmt.Errorf("send mail failed: %w", err)
		}
		return nil
	}

	// Implicit TLS on 465
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("tls dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client failed: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.User); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return w.Close()
}

func (s *Sender) from() string {
	if s.cfg.FromName == "" {
		return s.cfg.User
	}
	return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.User)
}

func buildMessage(from, to, subject, bodyHTML string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(layout(bodyHTML))
	return []byte(b.String())
}

func layout(content string) string {
	return `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8" />
	<title>DealDesk</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f6f8fa; padding: 30px; }
		.container { max-width: 600px; margin: auto; background: #fff; border-radius: 10px; overflow: hidden; }
		.header { background: #0f766e; color: white; text-align: center; padding: 20px; font-size: 22px; font-weight: bold; }
		.body { padding: 25px; color: #333; line-height: 1.6; }
		.footer { background: #f1f1f1; color: #555; text-align: center; padding: 15px; font-size: 13px; }
	</style>
</head>
<body>
<div class="container">
	<div class="header">DealDesk</div>
	<div class="body">
` + strings.TrimSpace(content) + `
	</div>
	<div class="footer">This is an automated message, please do not reply.</div>
</div>
</body>
</html>
`
}
