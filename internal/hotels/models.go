package hotels

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is the catalog entry a booking is made against. Listing fields are
// owned by the catalog service; the counters here are maintained by the
// booking engine.
type Hotel struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name          string    `gorm:"not null" json:"name"`
	City          string    `json:"city"`
	Address       string    `json:"address"`
	NightlyPrice  float64   `gorm:"not null" json:"nightly_price"`
	HourlyPrice   float64   `gorm:"not null;default:0" json:"hourly_price"`
	HourlyEnabled bool      `gorm:"not null;default:false" json:"hourly_enabled"`
	TotalBookings int       `gorm:"not null;default:0" json:"total_bookings"`
	TotalRevenue  float64   `gorm:"not null;default:0" json:"total_revenue"`
	AverageRating float64   `gorm:"not null;default:0" json:"average_rating"`
	ReviewCount   int       `gorm:"not null;default:0" json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Hotel) TableName() string {
	return "hotels"
}

// IsOwnedBy reports whether userID owns the hotel
func (h *Hotel) IsOwnedBy(userID uuid.UUID) bool {
	return h.OwnerID == userID
}
