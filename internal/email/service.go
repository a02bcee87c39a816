package email

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/jwalitptl/salon-api/internal/config"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

// Service sends transactional booking mail. It is driven by outbox
// events, never called from the commit path, so a slow SMTP server can
// not stall a booking.
type Service struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
	logger  *logger.Logger
}

func NewService(cfg config.EmailConfig, log *logger.Logger) *Service {
	return &Service{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  log,
	}
}

func (s *Service) SendBookingConfirmation(to string, apt *model.Appointment) error {
	subject := "Your appointment is confirmed"
	body := fmt.Sprintf(
		"Your appointment is confirmed for %s.\n\nBooking reference: %s\n",
		apt.ScheduledStart.Format(time.RFC1123),
		apt.ID,
	)
	return s.send(to, subject, body)
}

func (s *Service) SendCancellationNotice(to string, apt *model.Appointment, reason string) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf(
		"Your appointment on %s has been cancelled.\nReason: %s\n",
		apt.ScheduledStart.Format(time.RFC1123),
		reason,
	)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	if !s.enabled {
		s.logger.Debug("email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
