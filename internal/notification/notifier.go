package notification

import (
	"context"

	"github.com/r1cko23/Novo-pets-website-sub001/pkg/kafka"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/logger"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"

	schemaVersion = "1"
)

// Notifier publishes booking lifecycle events. Callers treat delivery as
// best-effort: a committed booking stands whether or not its event went out.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingStatusChanged(ctx context.Context, booking *model.Booking) error
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier emits booking events to the bookings topic, keyed by booking
// ID so a booking's events stay ordered within a partition.
type KafkaNotifier struct {
	producer publisher
	source   string
}

func NewKafkaNotifier(producer publisher, source string) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		source:   source,
	}
}

func (n *KafkaNotifier) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return n.publish(ctx, EventBookingCreated, booking)
}

func (n *KafkaNotifier) BookingStatusChanged(ctx context.Context, booking *model.Booking) error {
	return n.publish(ctx, EventBookingStatusChanged, booking)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(n.source).
		Build()

	return n.producer.Publish(ctx, msg)
}

// LogNotifier is a stand-in for environments without a broker. It records
// events in the service log and never fails.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BookingCreated(_ context.Context, booking *model.Booking) error {
	n.log.Info("Booking event",
		"event_type", EventBookingCreated,
		"booking_id", booking.ID,
		"appointment_date", booking.AppointmentDate,
		"appointment_time", booking.AppointmentTime,
		"groomer_id", booking.GroomerID,
	)
	return nil
}

func (n *LogNotifier) BookingStatusChanged(_ context.Context, booking *model.Booking) error {
	n.log.Info("Booking event",
		"event_type", EventBookingStatusChanged,
		"booking_id", booking.ID,
		"status", booking.Status,
	)
	return nil
}
