package bookings

import (
	"context"
	"errors"
	"time"

	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"
	"homestay/internal/users"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgExclusionViolation is raised by the bookings_no_overlap constraint
const pgExclusionViolation = "23P01"

type Repository interface {
	// Concurrency-safe booking creation
	CreateBookingWithAvailabilityCheck(ctx context.Context, booking *Booking) error

	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetActiveBookingsForHotel(ctx context.Context, hotelID uuid.UUID) ([]Booking, error)
	GetGuestBookings(ctx context.Context, guestID uuid.UUID) ([]Booking, error)
	GetBookingsByHotelIDs(ctx context.Context, hotelIDs []uuid.UUID) ([]Booking, error)

	// Guarded status change with its counter side effects
	ApplyTransition(ctx context.Context, id uuid.UUID, t Transition) (*Booking, error)

	// Scheduled maintenance
	GetCompletableBookingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	ReconcileCounters(ctx context.Context) (*ReconcileResult, error)
}

// ReconcileResult reports how many counter rows were corrected
type ReconcileResult struct {
	HotelsUpdated int64 `json:"hotels_updated"`
	UsersUpdated  int64 `json:"users_updated"`
}

type repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, now: time.Now}
}

// CreateBookingWithAvailabilityCheck inserts the booking only if no live booking
// of the same hotel overlaps it, and bumps the hotel and guest counters in the
// same transaction.
func (r *repository) CreateBookingWithAvailabilityCheck(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the hotel row so concurrent reservations of this hotel queue up
		var hotel struct {
			ID uuid.UUID `gorm:"column:id"`
		}
		err := tx.Table("hotels").
			Select("id").
			Where("id = ?", booking.HotelID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&hotel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("hotel not found")
			}
			return apperr.Dependency(err, "failed to lock hotel")
		}

		// 2. Re-run the overlap test against the live store
		var conflicts int64
		err = tx.Model(&Booking{}).
			Where("hotel_id = ?", booking.HotelID).
			Where("status NOT IN ?", statusStrings(VoidedStatuses())).
			Where("check_in < ? AND check_out > ?", booking.CheckOut, booking.CheckIn).
			Count(&conflicts).Error
		if err != nil {
			return apperr.Dependency(err, "failed to check availability")
		}
		if conflicts > 0 {
			return errDatesUnavailable()
		}

		// 3. Insert; the exclusion constraint is the last line of defence
		if err := tx.Create(booking).Error; err != nil {
			if isExclusionViolation(err) {
				return errDatesUnavailable()
			}
			return apperr.Dependency(err, "failed to create booking")
		}

		// 4. Counters are incremented in SQL, never read-modify-written
		err = tx.Model(&hotels.Hotel{}).
			Where("id = ?", booking.HotelID).
			UpdateColumns(map[string]interface{}{
				"total_bookings": gorm.Expr("total_bookings + ?", 1),
				"total_revenue":  gorm.Expr("total_revenue + ?", booking.TotalCost),
			}).Error
		if err != nil {
			return apperr.Dependency(err, "failed to update hotel counters")
		}

		err = tx.Model(&users.User{}).
			Where("id = ?", booking.GuestID).
			UpdateColumns(map[string]interface{}{
				"total_bookings": gorm.Expr("total_bookings + ?", 1),
				"total_spent":    gorm.Expr("total_spent + ?", booking.TotalCost),
			}).Error
		if err != nil {
			return apperr.Dependency(err, "failed to update guest counters")
		}

		return nil
	})
	return asAppError(err, "failed to create booking")
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Dependency(err, "failed to load booking")
	}
	return &booking, nil
}

func (r *repository) GetActiveBookingsForHotel(ctx context.Context, hotelID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Where("status NOT IN ?", statusStrings(VoidedStatuses())).
		Order("check_in ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load hotel bookings")
	}
	return bookings, nil
}

func (r *repository) GetGuestBookings(ctx context.Context, guestID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load guest bookings")
	}
	return bookings, nil
}

func (r *repository) GetBookingsByHotelIDs(ctx context.Context, hotelIDs []uuid.UUID) ([]Booking, error) {
	if len(hotelIDs) == 0 {
		return []Booking{}, nil
	}
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("hotel_id IN ?", hotelIDs).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load hotel bookings")
	}
	return bookings, nil
}

func (r *repository) ApplyTransition(ctx context.Context, id uuid.UUID, t Transition) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("booking not found")
			}
			return apperr.Dependency(err, "failed to lock booking")
		}

		if err := t.check(&booking); err != nil {
			return err
		}

		refunded := t.applyTo(&booking, r.now().UTC())
		if err := tx.Save(&booking).Error; err != nil {
			return apperr.Dependency(err, "failed to update booking")
		}

		if refunded == 0 {
			return nil
		}

		// Refunds reverse revenue but the booking still counts as made
		err = tx.Model(&hotels.Hotel{}).
			Where("id = ?", booking.HotelID).
			UpdateColumn("total_revenue", gorm.Expr("total_revenue - ?", refunded)).Error
		if err != nil {
			return apperr.Dependency(err, "failed to update hotel counters")
		}
		err = tx.Model(&users.User{}).
			Where("id = ?", booking.GuestID).
			UpdateColumn("total_spent", gorm.Expr("total_spent - ?", refunded)).Error
		if err != nil {
			return apperr.Dependency(err, "failed to update guest counters")
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update booking")
	}
	return &booking, nil
}

func (r *repository) GetCompletableBookingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ?", string(StatusConfirmed)).
		Where("check_out <= ?", now).
		Order("check_out ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load completable bookings")
	}
	return ids, nil
}

// ReconcileCounters recomputes the denormalized counters from the bookings table.
// Revenue is net of refunds, matching how the counters are maintained incrementally.
func (r *repository) ReconcileCounters(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hotelsRes := tx.Exec(`
			UPDATE hotels AS h
			SET total_bookings = s.cnt, total_revenue = s.revenue, updated_at = NOW()
			FROM (
				SELECT h2.id, COUNT(b.id) AS cnt, COALESCE(SUM(b.total_cost - b.refund_amount), 0) AS revenue
				FROM hotels h2
				LEFT JOIN bookings b ON b.hotel_id = h2.id
				GROUP BY h2.id
			) AS s
			WHERE h.id = s.id AND (h.total_bookings <> s.cnt OR h.total_revenue <> s.revenue)
		`)
		if hotelsRes.Error != nil {
			return hotelsRes.Error
		}
		result.HotelsUpdated = hotelsRes.RowsAffected

		usersRes := tx.Exec(`
			UPDATE users AS u
			SET total_bookings = s.cnt, total_spent = s.spent, updated_at = NOW()
			FROM (
				SELECT u2.id, COUNT(b.id) AS cnt, COALESCE(SUM(b.total_cost - b.refund_amount), 0) AS spent
				FROM users u2
				LEFT JOIN bookings b ON b.guest_id = u2.id
				GROUP BY u2.id
			) AS s
			WHERE u.id = s.id AND (u.total_bookings <> s.cnt OR u.total_spent <> s.spent)
		`)
		if usersRes.Error != nil {
			return usersRes.Error
		}
		result.UsersUpdated = usersRes.RowsAffected
		return nil
	})
	if err != nil {
		return nil, apperr.Dependency(err, "failed to reconcile counters")
	}
	return result, nil
}

func errDatesUnavailable() error {
	return apperr.Unavailable("Selected dates are not available, please choose different dates")
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// asAppError keeps classified errors and wraps anything else as a dependency failure
func asAppError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if isExclusionViolation(err) {
		return errDatesUnavailable()
	}
	return apperr.Dependency(err, "%s", message)
}
