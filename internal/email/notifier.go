package email

import (
	"context"
	"encoding/json"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/messaging"
)

// Notifier consumes booking events off the broker and mails the
// assigned employee. Delivery is at-least-once, so a retried event can
// produce a duplicate mail; that is acceptable for notifications.
type Notifier struct {
	broker    messaging.Broker
	employees repository.EmployeeRepository
	email     *Service
	logger    *logger.Logger
}

func NewNotifier(
	broker messaging.Broker,
	employees repository.EmployeeRepository,
	email *Service,
	log *logger.Logger,
) *Notifier {
	return &Notifier{
		broker:    broker,
		employees: employees,
		email:     email,
		logger:    log,
	}
}

func (n *Notifier) Run(ctx context.Context) error {
	created, err := n.broker.Subscribe(ctx, model.EventAppointmentCreated)
	if err != nil {
		return err
	}
	cancelled, err := n.broker.Subscribe(ctx, model.EventAppointmentCancelled)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-created:
			if !ok {
				return nil
			}
			n.handleCreated(ctx, payload)
		case payload, ok := <-cancelled:
			if !ok {
				return nil
			}
			n.handleCancelled(ctx, payload)
		}
	}
}

func (n *Notifier) handleCreated(ctx context.Context, payload []byte) {
	var apt model.Appointment
	if err := unwrap(payload, &apt); err != nil {
		n.logger.Error(err, "failed to decode appointment created event")
		return
	}

	employee, err := n.employees.Get(ctx, apt.EmployeeID)
	if err != nil {
		n.logger.Error(err, "failed to load employee for notification",
			"employee_id", apt.EmployeeID.String())
		return
	}

	if err := n.email.SendBookingConfirmation(employee.Email, &apt); err != nil {
		n.logger.Error(err, "failed to send booking confirmation",
			"appointment_id", apt.ID.String())
	}
}

func (n *Notifier) handleCancelled(ctx context.Context, payload []byte) {
	var event struct {
		AppointmentID string `json:"appointment_id"`
		EmployeeID    string `json:"employee_id"`
		Reason        string `json:"reason"`
	}
	if err := unwrap(payload, &event); err != nil {
		n.logger.Error(err, "failed to decode appointment cancelled event")
		return
	}
	n.logger.Info("appointment cancelled",
		"appointment_id", event.AppointmentID,
		"reason", event.Reason)
}

// unwrap decodes a broker payload. The publisher marshals the raw outbox
// payload, so the bytes may arrive as a JSON string of JSON; peel the
// extra layer when present.
func unwrap(payload []byte, v interface{}) error {
	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		return json.Unmarshal([]byte(inner), v)
	}
	return json.Unmarshal(payload, v)
}
