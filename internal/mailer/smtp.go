package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/sportsclub/backend/internal/config"
)

const verificationTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to SportsClub!</h2>
  <p>Thank you for signing up. Please verify your email address by entering the following code in the app:</p>
  <div style="background: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0; font-size: 24px; letter-spacing: 5px;">%s</div>
  <p>This code will expire in 10 minutes.</p>
  <p>If you didn't create an account, you can safely ignore this email.</p>
  <p>Best regards,<br>The SportsClub Team</p>
</div>`

// SMTP sends verification emails over implicit-TLS SMTP (port 465).
type SMTP struct {
	host       string
	port       string
	username   string
	password   string
	senderName string
}

func NewSMTP(cfg *config.Config) *SMTP {
	return &SMTP{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUser,
		password:   cfg.SMTPPassword,
		senderName: cfg.SenderName,
	}
}

func (m *SMTP) SendVerificationCode(ctx context.Context, email, code string) error {
	if m.username == "" {
		return &PermanentError{Err: fmt.Errorf("no sender email configured")}
	}

	msg := m.buildMessage(email, code)

	if err := m.send(ctx, email, msg); err != nil {
		return classify(err)
	}
	return nil
}

func (m *SMTP) buildMessage(to, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %q <%s>\r\n", m.senderName, m.username)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Verify Your Email Address\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, verificationTemplate, code)
	return []byte(b.String())
}

func (m *SMTP) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	dialer := &tls.Dialer{NetDialer: &net.Dialer{}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.username); err != nil {
		return fmt.Errorf("smtp MAIL: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}

// classify turns 5xx responses (rejected sender, bad mailbox) into
// permanent errors so the retry layer gives up immediately.
func classify(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && tpErr.Code >= 500 {
		return &PermanentError{Err: err}
	}
	if strings.Contains(err.Error(), "sender identity") {
		return &PermanentError{Err: err}
	}
	return err
}
