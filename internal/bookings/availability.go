package bookings

import (
	"time"

	"homestay/internal/shared/apperr"
)

// MinHourlyDuration is the shortest hourly stay that may be booked
const MinHourlyDuration = time.Hour

// Interval is a half-open [CheckIn, CheckOut) range
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps uses the half-open test a < d && b > c, so touching intervals do not conflict
func (i Interval) Overlaps(other Interval) bool {
	return i.CheckIn.Before(other.CheckOut) && i.CheckOut.After(other.CheckIn)
}

func (i Interval) Duration() time.Duration {
	return i.CheckOut.Sub(i.CheckIn)
}

// Validate rejects malformed intervals for the given booking type
func (i Interval) Validate(bookingType BookingType) error {
	if i.CheckIn.IsZero() || i.CheckOut.IsZero() {
		return apperr.Validation("check-in and check-out are required")
	}
	if !i.CheckOut.After(i.CheckIn) {
		return apperr.Validation("check-out must be after check-in")
	}
	if !bookingType.IsValid() {
		return apperr.Validation("booking type must be nightly or hourly")
	}
	if bookingType == BookingTypeHourly && i.Duration() < MinHourlyDuration {
		return apperr.Validation("hourly bookings must be at least 1 hour")
	}
	return nil
}

// IsRangeFree reports whether candidate overlaps none of the bookings that still hold their dates
func IsRangeFree(existing []Booking, candidate Interval) bool {
	for i := range existing {
		if !existing[i].HoldsInterval() {
			continue
		}
		if candidate.Overlaps(existing[i].Interval()) {
			return false
		}
	}
	return true
}

// BookedRanges projects bookings that still hold their dates onto calendar ranges
func BookedRanges(existing []Booking) []BookedRange {
	ranges := make([]BookedRange, 0, len(existing))
	for _, b := range existing {
		if !b.HoldsInterval() {
			continue
		}
		ranges = append(ranges, BookedRange{
			CheckIn:     b.CheckIn,
			CheckOut:    b.CheckOut,
			BookingType: b.BookingType,
		})
	}
	return ranges
}
