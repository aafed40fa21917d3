package bookings

type AvailabilityResponse struct {
	HotelID      string        `json:"hotel_id"`
	BookedRanges []BookedRange `json:"booked_ranges"`
	Available    *bool         `json:"available,omitempty"`
}

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
	Total    int       `json:"total"`
}

type HotelGuestListResponse struct {
	Guests []HotelGuest `json:"guests"`
	Total  int          `json:"total"`
}
