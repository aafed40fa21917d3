package notifications

import (
	"context"
	"sync"
	"time"

	"homestay/internal/bookings"
	"homestay/internal/hotels"
	"homestay/pkg/logger"

	"github.com/google/uuid"
)

// HotelLookup resolves the hotel name printed in notifications
type HotelLookup interface {
	GetHotelByID(ctx context.Context, id uuid.UUID) (*hotels.Hotel, error)
}

// BookingNotifier turns booking lifecycle events into published notifications.
// It implements bookings.Notifier.
type BookingNotifier struct {
	producer NotificationProducer
	hotels   HotelLookup
	now      func() time.Time
	log      *logger.Logger
}

var _ bookings.Notifier = (*BookingNotifier)(nil)

func NewBookingNotifier(producer NotificationProducer, hotels HotelLookup) *BookingNotifier {
	return &BookingNotifier{
		producer: producer,
		hotels:   hotels,
		now:      time.Now,
		log:      logger.GetDefault().WithComponent("notifications"),
	}
}

func (n *BookingNotifier) NotifyBookingEvent(ctx context.Context, event bookings.Event, booking *bookings.Booking) error {
	if booking == nil || booking.Email == "" {
		return nil
	}

	var hotelName string
	if n.hotels != nil {
		hotel, err := n.hotels.GetHotelByID(ctx, booking.HotelID)
		if err != nil {
			n.log.WarnContext(ctx, "Hotel lookup failed, sending notification without hotel name",
				"hotel_id", booking.HotelID.String(), "error", err)
		} else {
			hotelName = hotel.Name
		}
	}

	notification := NewBookingNotification(event, booking, hotelName, n.now())
	return n.producer.PublishNotification(ctx, notification)
}

// DirectProducer delivers notifications in-process on a background goroutine;
// used when Kafka is disabled. Close waits for pending deliveries.
type DirectProducer struct {
	dispatcher *Dispatcher
	wg         sync.WaitGroup
}

func NewDirectProducer(email EmailService) *DirectProducer {
	return &DirectProducer{dispatcher: NewDispatcher(email, 1, time.Second)}
}

func (p *DirectProducer) PublishNotification(ctx context.Context, notification *BookingNotification) error {
	payload, err := notification.ToJSON()
	if err != nil {
		return err
	}

	deliveryCtx := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.dispatcher.Process(deliveryCtx, payload); err != nil {
			p.dispatcher.log.ErrorWithContext(deliveryCtx, "In-process notification delivery failed", err, map[string]interface{}{
				"booking_id": notification.BookingID.String(),
				"type":       string(notification.Type),
			})
		}
	}()
	return nil
}

func (p *DirectProducer) Close() error {
	p.wg.Wait()
	return nil
}
