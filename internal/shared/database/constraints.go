package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints that back booking concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// btree_gist lets a gist index mix the uuid equality with the range overlap
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist;`).Error; err != nil {
		return err
	}

	// No two live bookings of a hotel may overlap. Voided rows are excluded so
	// a cancelled or rejected stay frees its interval. '[)' keeps touching
	// stays (checkout == next checkin) legal.
	err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
			) THEN
				ALTER TABLE bookings
				ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (
					hotel_id WITH =,
					tstzrange(check_in, check_out, '[)') WITH &&
				) WHERE (status NOT IN ('CANCELLED', 'REJECTED', 'REFUNDED'));
			END IF;
		END $$;
	`).Error
	if err != nil {
		return err
	}

	if err := db.Exec(`
		ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_check_range;
		ALTER TABLE bookings ADD CONSTRAINT bookings_check_range CHECK (check_in < check_out);
	`).Error; err != nil {
		return err
	}

	// Index for availability and guest list queries
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_hotel_status
		ON bookings (hotel_id, status);
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_guest_created
		ON bookings (guest_id, created_at DESC);
	`).Error
}

// RequiredConstraints are the constraint and index names the booking and
// review invariants rely on. idx_reviews_booking_unique comes from the Review
// model's uniqueIndex tag.
var RequiredConstraints = []string{
	"bookings_no_overlap",
	"bookings_check_range",
	"idx_reviews_booking_unique",
}

// MissingConstraints returns the required names absent from installed
func MissingConstraints(installed []string) []string {
	have := make(map[string]bool, len(installed))
	for _, name := range installed {
		have[name] = true
	}
	var missing []string
	for _, name := range RequiredConstraints {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
