package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

// Config holds SMTP relay settings. The mailer is a no-op unless Enabled
// and credentials are set, so a bare dev environment never tries to dial.
type Config struct {
	Enabled     bool
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	UseStartTLS bool
}

// Mailer delivers transactional HTML email over an SMTP relay.
type Mailer struct {
	cfg Config
}

const dialTimeout = 10 * time.Second

// New creates a Mailer.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether sending is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.User != "" && m.cfg.Password != ""
}

func (m *Mailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.User
}

// Send delivers a single HTML message. Returns nil without dialing when
// the mailer is not configured.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return nil
	}

	from := m.from()
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			htmlBody,
	)

	if m.cfg.UseStartTLS {
		return m.sendStartTLS(from, to, msg)
	}
	return m.sendImplicitTLS(from, to, msg)
}

func (m *Mailer) addr() string {
	return fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
}

func (m *Mailer) sendImplicitTLS(from, to string, msg []byte) error {
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", m.addr(), &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to dial smtp relay: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Quit()

	return m.deliver(client, from, to, msg)
}

func (m *Mailer) sendStartTLS(from, to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", m.addr(), dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to dial smtp relay: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
		return fmt.Errorf("starttls failed: %w", err)
	}

	return m.deliver(client, from, to, msg)
}

func (m *Mailer) deliver(client *smtp.Client, from, to string, msg []byte) error {
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}
