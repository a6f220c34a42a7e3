package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/config"
)

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender is the interface for sending SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Notifier wraps the email and SMS senders behind a best-effort contract:
// sends run in their own goroutine with a timeout, failures are logged and
// never surface to the caller's state transition.
type Notifier struct {
	Email EmailSender
	SMS   SMSSender
}

// NewNotifier builds the production notifier from config. Either sender may
// be nil when its credentials are absent; sends through it become no-ops.
func NewNotifier(cfg *config.Config) *Notifier {
	n := &Notifier{}
	if cfg.SMTPUser != "" && cfg.SMTPPass != "" {
		n.Email = &SMTPSender{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.EmailFrom,
		}
	}
	if cfg.SMSAPIKey != "" {
		n.SMS = &AfricasTalkingSender{
			BaseURL:  cfg.SMSBaseURL,
			Username: cfg.SMSUsername,
			APIKey:   cfg.SMSAPIKey,
			SenderID: cfg.SMSSenderID,
			HTTP:     &http.Client{Timeout: 10 * time.Second},
		}
	}
	return n
}

// SendEmailAsync fires the email in the background. Best-effort.
func (n *Notifier) SendEmailAsync(to, subject, body string) {
	if n == nil || n.Email == nil || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := n.Email.SendEmail(ctx, to, subject, body); err != nil {
			log.Printf("email to %s failed: %v", to, err)
		}
	}()
}

// SendSMSAsync fires the SMS in the background. Best-effort.
func (n *Notifier) SendSMSAsync(to, body string) {
	if n == nil || n.SMS == nil || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := n.SMS.SendSMS(ctx, to, body); err != nil {
			log.Printf("sms to %s failed: %v", to, err)
		}
	}()
}

// SMTPSender sends plain-text email over SMTP with STARTTLS auth.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{to}, []byte(msg))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfricasTalkingSender delivers SMS through the Africa's Talking bulk
// messaging API (form-encoded POST, apiKey header).
type AfricasTalkingSender struct {
	BaseURL  string
	Username string
	APIKey   string
	SenderID string
	HTTP     *http.Client
}

func (s *AfricasTalkingSender) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("username", s.Username)
	form.Set("to", to)
	form.Set("message", body)
	if s.SenderID != "" {
		form.Set("from", s.SenderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(s.BaseURL, "/")+"/version1/messaging", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", s.APIKey)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}
