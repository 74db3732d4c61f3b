package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/metrics"
	"AssetRadar/pkg/queue"
)

// Config holds SMTP settings.
type Config struct {
	Host      string
	Port      int
	Address   string
	Password  string
	Recipient string
}

// Mailer sends fire-and-forget run summaries over SMTP. Delivery happens on
// the background queue so a slow server never delays the messaging path.
type Mailer struct {
	cfg     Config
	queue   *queue.Queue
	metrics *metrics.Metrics
	logger  *applogger.Logger

	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config, q *queue.Queue, m *metrics.Metrics, l *applogger.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg,
		queue:    q,
		metrics:  m,
		logger:   l,
		sendMail: smtp.SendMail,
	}
}

// Send enqueues the email for background delivery. The returned error covers
// enqueueing only; delivery failures are logged, never raised.
func (m *Mailer) Send(subject, body string) error {
	return m.queue.Enqueue(queue.JobFunc{
		JobName: "email",
		Fn: func(ctx context.Context) error {
			return m.deliver(subject, body)
		},
	})
}

func (m *Mailer) deliver(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Address, m.cfg.Password, m.cfg.Host)

	msg := strings.Join([]string{
		"From: " + m.cfg.Address,
		"To: " + m.cfg.Recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	err := m.sendMail(addr, auth, m.cfg.Address, []string{m.cfg.Recipient}, []byte(msg))
	if m.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.metrics.MessagesSent.WithLabelValues("email", result).Inc()
	}
	if err != nil {
		m.logger.Error("email delivery failed",
			applogger.String("recipient", m.cfg.Recipient),
			applogger.Error(err),
		)
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("email delivered", applogger.String("recipient", m.cfg.Recipient))
	return nil
}
