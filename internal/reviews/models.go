package reviews

import (
	"time"

	"homestay/internal/bookings"
	"homestay/internal/shared/apperr"

	"github.com/google/uuid"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Review is a guest's rating of a completed stay; one per booking
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reviews_booking_unique;not null" json:"booking_id"`
	HotelID   uuid.UUID `gorm:"type:uuid;index;not null" json:"hotel_id"`
	GuestID   uuid.UUID `gorm:"type:uuid;index;not null" json:"guest_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// HotelRating is the aggregate kept on the hotel row
type HotelRating struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// CheckEligibility decides whether guestID may review booking
func CheckEligibility(booking *bookings.Booking, guestID uuid.UUID, alreadyReviewed bool) error {
	if booking.GuestID != guestID {
		return apperr.NotFound("booking not found")
	}
	if booking.Status != bookings.StatusCompleted {
		return apperr.NotFound("only completed stays can be reviewed")
	}
	if alreadyReviewed {
		return apperr.NotFound("booking has already been reviewed")
	}
	return nil
}

// Aggregate computes the hotel rating over a full set of ratings
func Aggregate(ratings []int) HotelRating {
	if len(ratings) == 0 {
		return HotelRating{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return HotelRating{
		AverageRating: float64(sum) / float64(len(ratings)),
		ReviewCount:   len(ratings),
	}
}
