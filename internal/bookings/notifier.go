package bookings

import "context"

type Event string

const (
	EventCreated     Event = "BOOKING_CREATED"
	EventIDSubmitted Event = "ID_SUBMITTED"
	EventConfirmed   Event = "BOOKING_CONFIRMED"
	EventRejected    Event = "BOOKING_REJECTED"
	EventCancelled   Event = "BOOKING_CANCELLED"
	EventCompleted   Event = "BOOKING_COMPLETED"
	EventRefunded    Event = "BOOKING_REFUNDED"
)

// Notifier publishes booking lifecycle events. Delivery failures never fail the booking.
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, event Event, booking *Booking) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyBookingEvent(context.Context, Event, *Booking) error { return nil }
