package notifications

import (
	"encoding/json"
	"time"

	"homestay/internal/bookings"

	"github.com/google/uuid"
)

// NotificationType mirrors the booking lifecycle event that produced it
type NotificationType string

const (
	NotificationTypeBookingCreated   NotificationType = NotificationType(bookings.EventCreated)
	NotificationTypeIDSubmitted      NotificationType = NotificationType(bookings.EventIDSubmitted)
	NotificationTypeBookingConfirmed NotificationType = NotificationType(bookings.EventConfirmed)
	NotificationTypeBookingRejected  NotificationType = NotificationType(bookings.EventRejected)
	NotificationTypeBookingCancelled NotificationType = NotificationType(bookings.EventCancelled)
	NotificationTypeBookingCompleted NotificationType = NotificationType(bookings.EventCompleted)
	NotificationTypeBookingRefunded  NotificationType = NotificationType(bookings.EventRefunded)
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

const (
	DefaultMaxRetries = 3

	// Stale lifecycle mail is dropped by the consumer instead of delivered late
	NotificationTTL = 72 * time.Hour
)

// BookingNotification is the message published for every booking lifecycle event
type BookingNotification struct {
	ID       uuid.UUID            `json:"id"`
	Type     NotificationType     `json:"type"`
	Priority NotificationPriority `json:"priority"`

	RecipientID    uuid.UUID `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	Subject        string    `json:"subject"`

	// Booking snapshot at the time of the event
	BookingID     uuid.UUID `json:"booking_id"`
	HotelID       uuid.UUID `json:"hotel_id"`
	HotelName     string    `json:"hotel_name,omitempty"`
	BookingStatus string    `json:"booking_status"`
	BookingType   string    `json:"booking_type"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalCost     float64   `json:"total_cost"`
	RefundAmount  float64   `json:"refund_amount"`
	Reason        string    `json:"reason,omitempty"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// NewBookingNotification addresses the event to the guest using the contact snapshot on the booking
func NewBookingNotification(event bookings.Event, booking *bookings.Booking, hotelName string, now time.Time) *BookingNotification {
	notificationType := NotificationType(event)
	expiresAt := now.Add(NotificationTTL)

	n := &BookingNotification{
		ID:             uuid.New(),
		Type:           notificationType,
		Priority:       GetDefaultPriority(notificationType),
		RecipientID:    booking.GuestID,
		RecipientEmail: booking.Email,
		RecipientName:  booking.GuestName(),
		BookingID:      booking.ID,
		HotelID:        booking.HotelID,
		HotelName:      hotelName,
		BookingStatus:  string(booking.Status),
		BookingType:    string(booking.BookingType),
		CheckIn:        booking.CheckIn,
		CheckOut:       booking.CheckOut,
		TotalCost:      booking.TotalCost,
		RefundAmount:   booking.RefundAmount,
		ExpiresAt:      &expiresAt,
		Status:         NotificationStatusPending,
		MaxRetries:     DefaultMaxRetries,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch notificationType {
	case NotificationTypeBookingCancelled:
		n.Reason = booking.CancellationReason
	case NotificationTypeBookingRejected:
		n.Reason = booking.RejectionReason
	}

	n.Subject = GenerateSubject(notificationType, hotelName)
	return n
}

func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeBookingConfirmed, NotificationTypeBookingRejected, NotificationTypeBookingCancelled:
		return NotificationPriorityHigh
	case NotificationTypeIDSubmitted, NotificationTypeBookingCompleted:
		return NotificationPriorityLow
	default:
		return NotificationPriorityMedium
	}
}

// GenerateSubject returns the email subject line for a notification type
func GenerateSubject(notType NotificationType, hotelName string) string {
	place := "your stay"
	if hotelName != "" {
		place = hotelName
	}

	switch notType {
	case NotificationTypeBookingCreated:
		return "Booking received for " + place + " - upload your ID proof"
	case NotificationTypeIDSubmitted:
		return "ID proof received for " + place
	case NotificationTypeBookingConfirmed:
		return "Booking confirmed at " + place
	case NotificationTypeBookingRejected:
		return "Booking rejected at " + place
	case NotificationTypeBookingCancelled:
		return "Booking cancelled at " + place
	case NotificationTypeBookingCompleted:
		return "Thanks for staying at " + place
	case NotificationTypeBookingRefunded:
		return "Refund processed for " + place
	default:
		return "Update on your booking"
	}
}

// GetPartitionKey keeps every event of one booking on the same partition, in order
func (n *BookingNotification) GetPartitionKey() string {
	return n.BookingID.String()
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *BookingNotification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

func (n *BookingNotification) ShouldRetry() bool {
	return n.RetryCount < n.MaxRetries && n.Status == NotificationStatusFailed
}

func (n *BookingNotification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *BookingNotification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	n.UpdatedAt = time.Now()
	if err != nil {
		msg := err.Error()
		n.LastError = &msg
	}
}

func (n *BookingNotification) IncrementRetry() {
	n.RetryCount++
	n.UpdatedAt = time.Now()
}
