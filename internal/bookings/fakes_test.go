package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"
	"homestay/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryRepository is an in-memory Repository with the same atomicity as the
// database: one mutex plays the role of the hotel row lock.
type memoryRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	hotels   map[uuid.UUID]*hotels.Hotel
	users    map[uuid.UUID]*users.User
	now      func() time.Time
	creates  int
}

func newMemoryRepository(now func() time.Time) *memoryRepository {
	return &memoryRepository{
		bookings: make(map[uuid.UUID]*Booking),
		hotels:   make(map[uuid.UUID]*hotels.Hotel),
		users:    make(map[uuid.UUID]*users.User),
		now:      now,
	}
}

func (m *memoryRepository) CreateBookingWithAvailabilityCheck(ctx context.Context, booking *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hotel, ok := m.hotels[booking.HotelID]
	if !ok {
		return apperr.NotFound("hotel not found")
	}
	for _, existing := range m.bookings {
		if existing.HotelID == booking.HotelID && existing.HoldsInterval() && existing.Interval().Overlaps(booking.Interval()) {
			return errDatesUnavailable()
		}
	}

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = m.now().Add(time.Duration(m.creates) * time.Millisecond)
	}
	booking.UpdatedAt = booking.CreatedAt
	m.creates++

	stored := *booking
	m.bookings[booking.ID] = &stored

	hotel.TotalBookings++
	hotel.TotalRevenue += booking.TotalCost
	if guest, ok := m.users[booking.GuestID]; ok {
		guest.TotalBookings++
		guest.TotalSpent += booking.TotalCost
	}
	return nil
}

func (m *memoryRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	copied := *b
	return &copied, nil
}

func (m *memoryRepository) GetActiveBookingsForHotel(ctx context.Context, hotelID uuid.UUID) ([]Booking, error) {
	return m.filter(func(b *Booking) bool { return b.HotelID == hotelID && b.HoldsInterval() }), nil
}

func (m *memoryRepository) GetGuestBookings(ctx context.Context, guestID uuid.UUID) ([]Booking, error) {
	return m.filter(func(b *Booking) bool { return b.GuestID == guestID }), nil
}

func (m *memoryRepository) GetBookingsByHotelIDs(ctx context.Context, hotelIDs []uuid.UUID) ([]Booking, error) {
	set := make(map[uuid.UUID]bool, len(hotelIDs))
	for _, id := range hotelIDs {
		set[id] = true
	}
	return m.filter(func(b *Booking) bool { return set[b.HotelID] }), nil
}

func (m *memoryRepository) ApplyTransition(ctx context.Context, id uuid.UUID, t Transition) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	working := *b
	if err := t.check(&working); err != nil {
		return nil, err
	}
	refunded := t.applyTo(&working, m.now().UTC())
	*b = working

	if refunded > 0 {
		m.hotels[b.HotelID].TotalRevenue -= refunded
		if guest, ok := m.users[b.GuestID]; ok {
			guest.TotalSpent -= refunded
		}
	}
	copied := working
	return &copied, nil
}

func (m *memoryRepository) GetCompletableBookingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	list := m.filter(func(b *Booking) bool { return b.Status == StatusConfirmed && !b.CheckOut.After(now) })
	ids := make([]uuid.UUID, 0, len(list))
	for _, b := range list {
		if len(ids) == limit {
			break
		}
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (m *memoryRepository) ReconcileCounters(ctx context.Context) (*ReconcileResult, error) {
	return &ReconcileResult{}, nil
}

func (m *memoryRepository) filter(keep func(b *Booking) bool) []Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *memoryRepository) hotel(id uuid.UUID) hotels.Hotel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.hotels[id]
}

func (m *memoryRepository) user(id uuid.UUID) users.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

// hotelDirectory and userDirectory read the same maps as the repository

type hotelDirectory struct{ repo *memoryRepository }

func (d hotelDirectory) GetHotelByID(ctx context.Context, id uuid.UUID) (*hotels.Hotel, error) {
	d.repo.mu.Lock()
	defer d.repo.mu.Unlock()
	h, ok := d.repo.hotels[id]
	if !ok {
		return nil, apperr.NotFound("hotel not found")
	}
	copied := *h
	return &copied, nil
}

func (d hotelDirectory) GetHotelsByOwner(ctx context.Context, ownerID uuid.UUID) ([]hotels.Hotel, error) {
	d.repo.mu.Lock()
	defer d.repo.mu.Unlock()
	var out []hotels.Hotel
	for _, h := range d.repo.hotels {
		if h.OwnerID == ownerID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (d hotelDirectory) GetHotelIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	list, _ := d.GetHotelsByOwner(ctx, ownerID)
	ids := make([]uuid.UUID, 0, len(list))
	for _, h := range list {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (d hotelDirectory) CreateHotel(ctx context.Context, hotel *hotels.Hotel) error {
	d.repo.mu.Lock()
	defer d.repo.mu.Unlock()
	d.repo.hotels[hotel.ID] = hotel
	return nil
}

type userDirectory struct{ repo *memoryRepository }

func (d userDirectory) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	d.repo.mu.Lock()
	defer d.repo.mu.Unlock()
	u, ok := d.repo.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	copied := *u
	return &copied, nil
}

func (d userDirectory) CreateUser(ctx context.Context, user *users.User) error {
	d.repo.mu.Lock()
	defer d.repo.mu.Unlock()
	d.repo.users[user.ID] = user
	return nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBookingEvent(ctx context.Context, event Event, booking *Booking) error {
	args := m.Called(ctx, event, booking)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, hotelID uuid.UUID) (func(), error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func (m *MockCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return m.Called(ctx, key, ttl, fetcher, dest).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
