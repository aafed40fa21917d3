package bookings

import (
	"time"

	"homestay/internal/payments"
	"homestay/internal/users"

	"github.com/google/uuid"
)

// Booking is a reservation of a hotel for a half-open [CheckIn, CheckOut) interval
type Booking struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;index;not null" json:"guest_id"`
	HotelID uuid.UUID `gorm:"type:uuid;index;not null" json:"hotel_id"`

	// Contact details copied at booking time
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"not null" json:"email"`
	Phone     string `json:"phone"`

	AdultCount int `gorm:"not null;default:1" json:"adult_count"`
	ChildCount int `gorm:"not null;default:0" json:"child_count"`

	CheckIn     time.Time   `gorm:"not null" json:"check_in"`
	CheckOut    time.Time   `gorm:"not null" json:"check_out"`
	BookingType BookingType `gorm:"type:varchar(10);not null;default:'nightly'" json:"booking_type"`

	TotalCost     float64         `gorm:"not null" json:"total_cost"`
	PaymentStatus payments.Status `gorm:"type:varchar(10);not null;default:'pending'" json:"payment_status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	RefundAmount  float64         `gorm:"not null;default:0" json:"refund_amount"`

	Status  Status  `gorm:"type:varchar(20);index;not null" json:"status"`
	IDProof IDProof `gorm:"embedded;embeddedPrefix:id_proof_" json:"id_proof"`

	SpecialRequests    string `json:"special_requests,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	RejectionReason    string `json:"rejection_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IDProof is the identity document attached to a booking
type IDProof struct {
	Type            IDProofType   `gorm:"type:varchar(20)" json:"type,omitempty"`
	FrontImage      string        `json:"front_image,omitempty"`
	BackImage       string        `json:"back_image,omitempty"`
	Status          IDProofStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
	VerifiedAt      *time.Time    `json:"verified_at,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Interval returns the reserved range
func (b *Booking) Interval() Interval {
	return Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// HoldsInterval checks if the booking still blocks its dates
func (b *Booking) HoldsInterval() bool {
	return !b.Status.IsVoided()
}

func (b *Booking) GuestName() string {
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}

// BookedRange is the calendar view of a booking
type BookedRange struct {
	CheckIn     time.Time   `json:"check_in"`
	CheckOut    time.Time   `json:"check_out"`
	BookingType BookingType `json:"booking_type"`
}

// Contact is the guest contact snapshot supplied with a reservation
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   uuid.UUID
	Role users.Role
}

func (a Actor) IsAdmin() bool { return a.Role == users.RoleAdmin }
