package bookings

import (
	"time"

	"homestay/internal/payments"
	"homestay/internal/shared/apperr"

	"github.com/google/uuid"
)

// Transition is a guarded single-booking status change. The repository
// evaluates it under a row lock, so the guard and the write see the same row.
type Transition struct {
	From []Status
	To   Status

	// GuestID restricts the transition to the booking's owner when set
	GuestID uuid.UUID

	// Guard runs after the status check and may veto the change
	Guard func(b *Booking) error

	// Apply sets the fields that accompany the status change
	Apply func(b *Booking, now time.Time)

	// Refund marks the full amount as refunded and reverses the revenue counters
	Refund bool
}

// check validates the transition against the current row
func (t Transition) check(b *Booking) error {
	if t.GuestID != uuid.Nil && b.GuestID != t.GuestID {
		return apperr.NotFound("booking not found")
	}
	if !containsStatus(t.From, b.Status) || !b.Status.CanTransitionTo(t.To) {
		return apperr.NotFound("booking in status %s cannot move to %s", b.Status, t.To)
	}
	if t.Guard != nil {
		return t.Guard(b)
	}
	return nil
}

// applyTo mutates b and returns the amount newly refunded
func (t Transition) applyTo(b *Booking, now time.Time) float64 {
	b.Status = t.To
	b.UpdatedAt = now
	if t.Apply != nil {
		t.Apply(b, now)
	}
	if !t.Refund || b.PaymentStatus == payments.StatusRefunded {
		return 0
	}
	b.PaymentStatus = payments.StatusRefunded
	b.RefundAmount = b.TotalCost
	return b.RefundAmount
}

func containsStatus(list []Status, s Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func statusStrings(list []Status) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}
