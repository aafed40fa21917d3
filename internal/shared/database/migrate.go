package database

import (
	"homestay/internal/bookings"
	"homestay/internal/hotels"
	"homestay/internal/reviews"
	"homestay/internal/users"

	"gorm.io/gorm"
)

// Migrate creates the tables; primary keys default to uuid_generate_v4()
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&users.User{},
		&hotels.Hotel{},
		&bookings.Booking{},
		&reviews.Review{},
	)
}
