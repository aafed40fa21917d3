package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingConstraints(t *testing.T) {
	assert.Empty(t, MissingConstraints(RequiredConstraints))
	assert.Equal(t, RequiredConstraints, MissingConstraints(nil))
	assert.Equal(t, []string{"bookings_no_overlap"},
		MissingConstraints([]string{"bookings_check_range", "idx_reviews_booking_unique", "idx_bookings_hotel_status"}))
}
