package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer delivers a single message. Implementations must give up once ctx is done.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
}

type EmailService struct {
	cfg SMTPConfig
}

func NewEmailService(cfg SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) Send(ctx context.Context, m Message) error {
	if len(m.To) == 0 {
		return fmt.Errorf("message %q has no recipients", m.Subject)
	}

	msg, err := buildMessage(m)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsconfig := &tls.Config{ServerName: s.cfg.Host}

	dialer := &net.Dialer{}
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("ошибка соединения SMTP: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = raw.SetDeadline(deadline)
	} else {
		_ = raw.SetDeadline(time.Now().Add(time.Minute))
	}
	// net/smtp не знает про context, поэтому обрываем соединение сами
	stop := context.AfterFunc(ctx, func() { raw.Close() })
	defer stop()

	conn := raw

	if s.cfg.Port == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn = tls.Client(conn, tlsconfig)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
	}
	defer client.Close()

	if s.cfg.Port != 465 {
		// STARTTLS (обычно порт 587)
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(tlsconfig); err != nil {
				return fmt.Errorf("ошибка команды STARTTLS: %w", err)
			}
		}
	}

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
		}
	}

	if err := client.Mail(m.From); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, rcpt := range m.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the raw message. Addresses must be single header
// lines; the subject is Q-encoded so user text cannot add headers.
func buildMessage(m Message) ([]byte, error) {
	for _, addr := range append([]string{m.From}, m.To...) {
		if strings.ContainsAny(addr, "\r\n") {
			return nil, fmt.Errorf("invalid address %q", addr)
		}
	}

	msg := "To: " + strings.Join(m.To, ", ") + "\r\n" +
		"From: " + m.From + "\r\n" +
		"Subject: " + mime.QEncoding.Encode("utf-8", m.Subject) + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		m.Body + "\r\n"
	return []byte(msg), nil
}

// LogMailer only logs outgoing mail. Used when SMTP is not configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "email not sent, SMTP disabled",
		slog.String("subject", msg.Subject),
		slog.Any("to", msg.To))
	return nil
}

func renderEmail(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("ошибка выполнения шаблона %s: %w", name, err)
	}
	return body.String(), nil
}
