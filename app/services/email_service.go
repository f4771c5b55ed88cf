// Package services provides external service integrations and technical concerns like notifications and email delivery
package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/raf-advanced/maintenance-api/config"
	"github.com/raf-advanced/maintenance-api/utils"
)

// EmailMessage is a single outbound email with both HTML and plaintext bodies.
// Mail clients that cannot render the RTL HTML table fall back to TextBody.
type EmailMessage struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailService handles email delivery
type EmailService interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// SMTPEmailService implements EmailService over SMTP with STARTTLS
type SMTPEmailService struct {
	config *config.EmailConfig
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(cfg *config.EmailConfig) EmailService {
	return &SMTPEmailService{config: cfg}
}

// SendEmail delivers the message synchronously. The caller decides whether a
// delivery failure fails the surrounding operation; this service only reports.
func (s *SMTPEmailService) SendEmail(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email message has no recipients")
	}
	for _, to := range msg.To {
		if !strings.Contains(to, "@") {
			return fmt.Errorf("invalid email address: %s", to)
		}
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	timeout := s.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server %s: %w", addr, err)
	}
	_ = conn.SetDeadline(utils.UTCNow().Add(timeout))

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if s.config.UseSTARTTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("SMTP server %s does not support STARTTLS", addr)
		}
		if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return fmt.Errorf("STARTTLS handshake failed: %w", err)
		}
	}

	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("SMTP MAIL FROM failed: %w", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("SMTP RCPT TO %s failed: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(s.buildMIME(msg)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish email body: %w", err)
	}

	return client.Quit()
}

// buildMIME assembles a multipart/alternative message. Subjects carry Arabic
// text, so the header is Q-encoded per RFC 2047.
func (s *SMTPEmailService) buildMIME(msg EmailMessage) []byte {
	boundary := fmt.Sprintf("raf-%d", utils.UTCNow().UnixNano())

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", utils.UTCNow().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	// Plaintext part goes first so HTML-capable clients prefer the last part
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mu           sync.Mutex
	SentMessages []EmailMessage

	// FailWith makes every SendEmail call return this error when set
	FailWith error
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{
		SentMessages: make([]EmailMessage, 0),
	}
}

// SendEmail records the message instead of delivering it
func (m *MockEmailService) SendEmail(ctx context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	log.Printf("Mock email sent to %v [%s]", msg.To, msg.Subject)
	m.SentMessages = append(m.SentMessages, msg)
	return nil
}

// GetSentMessages returns all recorded messages
func (m *MockEmailService) GetSentMessages() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.SentMessages))
	copy(out, m.SentMessages)
	return out
}

// ClearSentMessages clears the recorded messages list
func (m *MockEmailService) ClearSentMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = m.SentMessages[:0]
}
