package bookings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupGuests(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	hotel := uuid.New()

	list := []Booking{
		{ID: uuid.New(), GuestID: alice, HotelID: hotel, FirstName: "Alice", Email: "old@example.com",
			CheckIn: date("2024-01-01"), CheckOut: date("2024-01-02"), Status: StatusCompleted,
			TotalCost: 1000, CreatedAt: date("2023-12-01")},
		{ID: uuid.New(), GuestID: alice, HotelID: hotel, FirstName: "Alice", Email: "new@example.com",
			CheckIn: date("2024-03-01"), CheckOut: date("2024-03-03"), Status: StatusConfirmed,
			TotalCost: 2000, CreatedAt: date("2024-02-01")},
		{ID: uuid.New(), GuestID: alice, HotelID: hotel, FirstName: "Alice",
			CheckIn: date("2024-05-01"), CheckOut: date("2024-05-03"), Status: StatusCancelled,
			TotalCost: 2000, RefundAmount: 2000, CreatedAt: date("2024-01-15")},
		{ID: uuid.New(), GuestID: bob, HotelID: hotel, FirstName: "Bob", Email: "bob@example.com",
			CheckIn: date("2024-02-01"), CheckOut: date("2024-02-02"), Status: StatusIDPending,
			TotalCost: 1000, CreatedAt: date("2024-01-20")},
	}

	guests := GroupGuests(list)
	require.Len(t, guests, 2)

	// Alice's last stay (March) is after Bob's (February)
	assert.Equal(t, alice, guests[0].GuestID)
	assert.Equal(t, "new@example.com", guests[0].Email)
	assert.Equal(t, 2, guests[0].TotalStays)
	assert.Equal(t, 3000.0, guests[0].TotalSpent)
	assert.Equal(t, date("2024-03-01"), guests[0].LastStay)
	require.Len(t, guests[0].Stays, 3)
	assert.Equal(t, date("2024-05-01"), guests[0].Stays[0].CheckIn)

	assert.Equal(t, bob, guests[1].GuestID)
	assert.Equal(t, 1, guests[1].TotalStays)
}

func TestGroupGuests_Empty(t *testing.T) {
	assert.Empty(t, GroupGuests(nil))
}
