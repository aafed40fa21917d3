package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"homestay/internal/bookings"
	"homestay/internal/hotels"
	"homestay/internal/payments"
	"homestay/internal/reviews"
	"homestay/internal/shared/config"
	"homestay/internal/shared/constants"
	"homestay/internal/shared/database"
	"homestay/internal/users"
	"homestay/pkg/cache"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type Seeder struct {
	db  *database.DB
	now time.Time
}

func main() {
	fmt.Println("🌱 Starting Homestay Database Seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, now: time.Now().UTC()}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates every table the engine owns
func (s *Seeder) CleanDatabase() error {
	tables := []string{"reviews", "bookings", "hotels", "users"}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds users, hotels, a booking history and reviews, then rebuilds the counters
func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	hotelList, err := s.SeedHotels(userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed hotels: %w", err)
	}

	completed, err := s.SeedBookings(hotelList, userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	if err := s.SeedReviews(completed); err != nil {
		return fmt.Errorf("failed to seed reviews: %w", err)
	}

	// Counters are derived from the rows just written
	result, err := bookings.NewRepository(s.db.PostgreSQL).ReconcileCounters(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild counters: %w", err)
	}
	fmt.Printf("  🔢 Counters rebuilt: %d hotels, %d users\n", result.HotelsUpdated, result.UsersUpdated)

	if s.db.Redis != nil {
		cacheService := cache.NewService(s.db.Redis)
		for _, pattern := range []string{constants.PATTERN_INVALIDATE_ANALYTICS, constants.PATTERN_INVALIDATE_BOOKED_RANGES} {
			if err := cacheService.DeletePattern(ctx, pattern); err != nil {
				log.Printf("Warning: Failed to clear cache %s: %v", pattern, err)
			}
		}
	}

	return nil
}

// SeedUsers creates an admin, two hotel owners and four guests
func (s *Seeder) SeedUsers() (map[string]*users.User, error) {
	fmt.Println("  👤 Seeding users...")

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@homestay.local", "9000000000", users.RoleAdmin},
		{"owner1", "Meera", "Iyer", "meera.owner@homestay.local", "9000000101", users.RoleOwner},
		{"owner2", "Kabir", "Sethi", "kabir.owner@homestay.local", "9000000102", users.RoleOwner},
		{"guest1", "Asha", "Rao", "asha@example.com", "9000000201", users.RoleGuest},
		{"guest2", "Ravi", "Menon", "ravi@example.com", "9000000202", users.RoleGuest},
		{"guest3", "Neha", "Kapoor", "neha@example.com", "9000000203", users.RoleGuest},
		{"guest4", "Arjun", "Das", "arjun@example.com", "9000000204", users.RoleGuest},
	}

	created := make(map[string]*users.User, len(usersData))
	for _, u := range usersData {
		user := &users.User{
			ID:        uuid.New(),
			FirstName: u.firstName,
			LastName:  u.lastName,
			Email:     u.email,
			Phone:     u.phone,
			Role:      u.role,
			CreatedAt: s.now,
			UpdatedAt: s.now,
		}
		if err := s.db.PostgreSQL.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		created[u.key] = user
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return created, nil
}

// SeedHotels creates two hotels per owner, one of them open for hourly stays
func (s *Seeder) SeedHotels(userIDs map[string]*users.User) ([]*hotels.Hotel, error) {
	fmt.Println("  🏨 Seeding hotels...")

	hotelsData := []struct {
		owner         string
		name          string
		city          string
		nightly       float64
		hourly        float64
		hourlyEnabled bool
	}{
		{"owner1", "Lake View Homestay", "Udaipur", 2500, 400, true},
		{"owner1", "Old Town Haveli", "Jaipur", 3200, 0, false},
		{"owner2", "Tea Garden Cottage", "Munnar", 1800, 300, true},
		{"owner2", "Cliffside Retreat", "Varkala", 4100, 0, false},
	}

	var created []*hotels.Hotel
	for _, h := range hotelsData {
		hotel := &hotels.Hotel{
			ID:            uuid.New(),
			OwnerID:       userIDs[h.owner].ID,
			Name:          h.name,
			City:          h.city,
			Address:       h.city + ", India",
			NightlyPrice:  h.nightly,
			HourlyPrice:   h.hourly,
			HourlyEnabled: h.hourlyEnabled,
			CreatedAt:     s.now,
			UpdatedAt:     s.now,
		}
		if err := s.db.PostgreSQL.Create(hotel).Error; err != nil {
			return nil, fmt.Errorf("failed to create hotel %s: %w", h.name, err)
		}
		created = append(created, hotel)
		fmt.Printf("    ✅ Created hotel: %s (%s)\n", hotel.Name, hotel.City)
	}
	return created, nil
}

type seedStay struct {
	guest       string
	startDay    int // Days from today, negative for past stays
	nights      int
	status      bookings.Status
	createdDays int // Days before today the booking was made
}

// SeedBookings writes a non-overlapping booking history per hotel covering every status.
// It returns the completed bookings so they can be reviewed.
func (s *Seeder) SeedBookings(hotelList []*hotels.Hotel, userIDs map[string]*users.User) ([]*bookings.Booking, error) {
	fmt.Println("  📅 Seeding bookings...")

	stays := []seedStay{
		{"guest1", -55, 2, bookings.StatusCompleted, 62},
		{"guest2", -48, 3, bookings.StatusCompleted, 50},
		{"guest3", -40, 1, bookings.StatusCancelled, 45},
		{"guest3", -38, 2, bookings.StatusCompleted, 41},
		{"guest4", -30, 2, bookings.StatusRejected, 33},
		{"guest1", -25, 4, bookings.StatusCompleted, 27},
		{"guest2", -14, 2, bookings.StatusCompleted, 20},
		{"guest4", -8, 3, bookings.StatusCompleted, 12},
		{"guest3", 3, 2, bookings.StatusConfirmed, 5},
		{"guest1", 7, 3, bookings.StatusIDSubmitted, 2},
		{"guest2", 12, 2, bookings.StatusIDPending, 1},
		{"guest4", 16, 1, bookings.StatusPaymentDone, 0},
	}

	today := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, time.UTC)
	var completed []*bookings.Booking

	for i, hotel := range hotelList {
		for j, stay := range stays {
			// Rotate guests per hotel so guest histories differ
			guest := userIDs[stays[(j+i)%len(stays)].guest]

			checkIn := today.AddDate(0, 0, stay.startDay+i).Add(12 * time.Hour)
			interval := bookings.Interval{CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, stay.nights).Add(-time.Hour)}
			cost, err := bookings.QuoteTotalCost(hotel, interval, bookings.BookingTypeNightly)
			if err != nil {
				return nil, err
			}

			createdAt := today.AddDate(0, 0, -stay.createdDays).Add(time.Duration(9+j) * time.Hour)
			booking := newSeedBooking(hotel, guest, interval, cost, stay.status, createdAt)

			if err := s.db.PostgreSQL.Create(booking).Error; err != nil {
				return nil, fmt.Errorf("failed to create booking for %s: %w", hotel.Name, err)
			}
			if booking.Status == bookings.StatusCompleted {
				completed = append(completed, booking)
			}
		}

		// One short hourly stay where the hotel allows it
		if hotel.HourlyEnabled {
			checkIn := today.AddDate(0, 0, 25).Add(10 * time.Hour)
			interval := bookings.Interval{CheckIn: checkIn, CheckOut: checkIn.Add(3 * time.Hour)}
			cost, err := bookings.QuoteTotalCost(hotel, interval, bookings.BookingTypeHourly)
			if err != nil {
				return nil, err
			}
			booking := newSeedBooking(hotel, userIDs["guest2"], interval, cost, bookings.StatusConfirmed, today.Add(-2*time.Hour))
			booking.BookingType = bookings.BookingTypeHourly
			if err := s.db.PostgreSQL.Create(booking).Error; err != nil {
				return nil, fmt.Errorf("failed to create hourly booking for %s: %w", hotel.Name, err)
			}
		}

		fmt.Printf("    ✅ Created bookings for: %s\n", hotel.Name)
	}

	return completed, nil
}

func newSeedBooking(hotel *hotels.Hotel, guest *users.User, interval bookings.Interval, cost float64, status bookings.Status, createdAt time.Time) *bookings.Booking {
	booking := &bookings.Booking{
		ID:            uuid.New(),
		GuestID:       guest.ID,
		HotelID:       hotel.ID,
		FirstName:     guest.FirstName,
		LastName:      guest.LastName,
		Email:         guest.Email,
		Phone:         guest.Phone,
		AdultCount:    2,
		CheckIn:       interval.CheckIn,
		CheckOut:      interval.CheckOut,
		BookingType:   bookings.BookingTypeNightly,
		TotalCost:     cost,
		PaymentStatus: payments.StatusPaid,
		TransactionID: "seed_" + uuid.NewString()[:8],
		Status:        status,
		IDProof:       bookings.IDProof{Status: bookings.IDProofPending},
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	submitted := createdAt.Add(2 * time.Hour)
	withProof := func(proofStatus bookings.IDProofStatus) {
		booking.IDProof = bookings.IDProof{
			Type:        bookings.IDProofAadhaar,
			FrontImage:  "seed/id-front-" + booking.ID.String() + ".jpg",
			Status:      proofStatus,
			SubmittedAt: &submitted,
		}
	}

	switch status {
	case bookings.StatusIDSubmitted:
		withProof(bookings.IDProofSubmitted)
	case bookings.StatusConfirmed, bookings.StatusCompleted:
		withProof(bookings.IDProofVerified)
		verified := submitted.Add(time.Hour)
		booking.IDProof.VerifiedAt = &verified
		if status == bookings.StatusCompleted {
			completedAt := interval.CheckOut
			booking.CompletedAt = &completedAt
		}
	case bookings.StatusRejected:
		withProof(bookings.IDProofRejected)
		booking.IDProof.RejectionReason = bookings.DefaultRejectionReason
		booking.RejectionReason = bookings.DefaultRejectionReason
		booking.PaymentStatus = payments.StatusRefunded
		booking.RefundAmount = cost
	case bookings.StatusCancelled:
		cancelledAt := createdAt.Add(24 * time.Hour)
		booking.CancelledAt = &cancelledAt
		booking.CancellationReason = bookings.DefaultCancellationReason
		booking.PaymentStatus = payments.StatusRefunded
		booking.RefundAmount = cost
	}
	return booking
}

// SeedReviews reviews most completed stays and stores the rating aggregate on each hotel
func (s *Seeder) SeedReviews(completed []*bookings.Booking) error {
	fmt.Println("  ⭐ Seeding reviews...")

	comments := []string{
		"Lovely hosts and a spotless room.",
		"Great location, breakfast could be better.",
		"Quiet and comfortable, would stay again.",
		"Check-in took a while but the view made up for it.",
	}

	ratingsByHotel := make(map[uuid.UUID][]int)
	for i, booking := range completed {
		// Leave every fourth stay unreviewed so guests can try the flow
		if i%4 == 3 {
			continue
		}
		rating := reviews.MaxRating - i%3
		review := &reviews.Review{
			ID:        uuid.New(),
			BookingID: booking.ID,
			HotelID:   booking.HotelID,
			GuestID:   booking.GuestID,
			Rating:    rating,
			Comment:   comments[i%len(comments)],
			CreatedAt: booking.CheckOut.Add(6 * time.Hour),
			UpdatedAt: booking.CheckOut.Add(6 * time.Hour),
		}
		if err := s.db.PostgreSQL.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		ratingsByHotel[booking.HotelID] = append(ratingsByHotel[booking.HotelID], rating)
	}

	for hotelID, ratings := range ratingsByHotel {
		aggregate := reviews.Aggregate(ratings)
		err := s.db.PostgreSQL.Model(&hotels.Hotel{}).
			Where("id = ?", hotelID).
			UpdateColumns(map[string]interface{}{
				"average_rating": aggregate.AverageRating,
				"review_count":   aggregate.ReviewCount,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update hotel rating: %w", err)
		}
	}

	fmt.Printf("    ✅ Created reviews for %d hotels\n", len(ratingsByHotel))
	return nil
}
