package bookings

import "time"

type CreateBookingRequest struct {
	HotelID          string    `json:"hotel_id" binding:"required,uuid"`
	GuestID          string    `json:"guest_id" binding:"omitempty,uuid"`
	CheckIn          time.Time `json:"check_in" binding:"required"`
	CheckOut         time.Time `json:"check_out" binding:"required"`
	AdultCount       int       `json:"adult_count" binding:"required,min=1,max=20"`
	ChildCount       int       `json:"child_count" binding:"min=0,max=20"`
	BookingType      string    `json:"booking_type" binding:"required,booking_type"`
	FirstName        string    `json:"first_name" binding:"max=100"`
	LastName         string    `json:"last_name" binding:"max=100"`
	Email            string    `json:"email" binding:"omitempty,email"`
	Phone            string    `json:"phone" binding:"max=20"`
	SpecialRequests  string    `json:"special_requests" binding:"max=1000"`
	SkipIDCollection bool      `json:"skip_id_collection"`
}

type UploadIDProofRequest struct {
	IDType     string `json:"id_type" binding:"required,id_type"`
	FrontImage string `json:"front_image" binding:"required,max=2048"`
	BackImage  string `json:"back_image" binding:"max=2048"`
}

type ReviewIDProofRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason" binding:"max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AvailabilityQuery optionally asks whether a specific range is free
type AvailabilityQuery struct {
	CheckIn     *time.Time `form:"check_in" time_format:"2006-01-02T15:04:05Z07:00"`
	CheckOut    *time.Time `form:"check_out" time_format:"2006-01-02T15:04:05Z07:00"`
	BookingType string     `form:"booking_type" binding:"omitempty,booking_type"`
}
