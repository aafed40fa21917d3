package bookings

import (
	"math"
	"time"

	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"
)

const day = 24 * time.Hour

// Units returns the number of billable nights or hours, rounded up and never below one
func Units(interval Interval, bookingType BookingType) int {
	unit := day
	if bookingType == BookingTypeHourly {
		unit = time.Hour
	}
	units := int(math.Ceil(float64(interval.Duration()) / float64(unit)))
	if units < 1 {
		return 1
	}
	return units
}

// QuoteTotalCost prices an interval against the hotel's rates
func QuoteTotalCost(hotel *hotels.Hotel, interval Interval, bookingType BookingType) (float64, error) {
	price := hotel.NightlyPrice
	if bookingType == BookingTypeHourly {
		if !hotel.HourlyEnabled || hotel.HourlyPrice <= 0 {
			return 0, apperr.Validation("hotel does not accept hourly bookings")
		}
		price = hotel.HourlyPrice
	}
	if price <= 0 {
		return 0, apperr.Validation("hotel has no price configured")
	}
	return price * float64(Units(interval, bookingType)), nil
}
