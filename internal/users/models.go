package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the locally persisted profile of an identity-service account
type User struct {
	ID            uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName     string    `json:"first_name" gorm:"not null"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone         string    `json:"phone"`
	Role          Role      `json:"role" gorm:"type:varchar(10);not null;default:'GUEST'"`
	TotalBookings int       `json:"total_bookings" gorm:"not null;default:0"`
	TotalSpent    float64   `json:"total_spent" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
