package bookings

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// HotelGuest is one guest of an owner's hotels with their stay history
type HotelGuest struct {
	GuestID    uuid.UUID   `json:"guest_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone"`
	TotalStays int         `json:"total_stays"`
	TotalSpent float64     `json:"total_spent"`
	LastStay   time.Time   `json:"last_stay"`
	Stays      []GuestStay `json:"stays"`
}

type GuestStay struct {
	BookingID   uuid.UUID   `json:"booking_id"`
	HotelID     uuid.UUID   `json:"hotel_id"`
	CheckIn     time.Time   `json:"check_in"`
	CheckOut    time.Time   `json:"check_out"`
	BookingType BookingType `json:"booking_type"`
	Status      Status      `json:"status"`
	TotalCost   float64     `json:"total_cost"`
}

// GroupGuests groups bookings by guest. Contact details come from the most
// recently created booking; voided bookings stay in the history but count
// neither as a stay nor as spend.
func GroupGuests(list []Booking) []HotelGuest {
	byGuest := make(map[uuid.UUID]*HotelGuest)
	latest := make(map[uuid.UUID]time.Time)
	var order []uuid.UUID

	for _, b := range list {
		g, ok := byGuest[b.GuestID]
		if !ok {
			g = &HotelGuest{GuestID: b.GuestID}
			byGuest[b.GuestID] = g
			order = append(order, b.GuestID)
		}
		if !ok || b.CreatedAt.After(latest[b.GuestID]) {
			latest[b.GuestID] = b.CreatedAt
			g.FirstName, g.LastName, g.Email, g.Phone = b.FirstName, b.LastName, b.Email, b.Phone
		}

		g.Stays = append(g.Stays, GuestStay{
			BookingID:   b.ID,
			HotelID:     b.HotelID,
			CheckIn:     b.CheckIn,
			CheckOut:    b.CheckOut,
			BookingType: b.BookingType,
			Status:      b.Status,
			TotalCost:   b.TotalCost,
		})
		if b.HoldsInterval() {
			g.TotalStays++
			g.TotalSpent += b.TotalCost - b.RefundAmount
			if b.CheckIn.After(g.LastStay) {
				g.LastStay = b.CheckIn
			}
		}
	}

	guests := make([]HotelGuest, 0, len(order))
	for _, id := range order {
		g := byGuest[id]
		sort.SliceStable(g.Stays, func(i, j int) bool {
			return g.Stays[i].CheckIn.After(g.Stays[j].CheckIn)
		})
		guests = append(guests, *g)
	}

	sort.SliceStable(guests, func(i, j int) bool {
		if !guests[i].LastStay.Equal(guests[j].LastStay) {
			return guests[i].LastStay.After(guests[j].LastStay)
		}
		return guests[i].GuestID.String() < guests[j].GuestID.String()
	})
	return guests
}
