package analytics

import (
	"context"
	"time"

	"homestay/internal/bookings"
	"homestay/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads booking history for the owner dashboards
type Repository interface {
	GetTotals(ctx context.Context, hotelIDs []uuid.UUID) (*Totals, error)
	GetBookingsCreatedSince(ctx context.Context, hotelIDs []uuid.UUID, since time.Time) ([]bookings.Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetTotals aggregates in the database so the dashboard never loads the full history
func (r *repository) GetTotals(ctx context.Context, hotelIDs []uuid.UUID) (*Totals, error) {
	totals := &Totals{StatusCounts: map[bookings.Status]int{}}
	if len(hotelIDs) == 0 {
		return totals, nil
	}
	db := r.db.WithContext(ctx)

	var rows []struct {
		Status bookings.Status
		Count  int
	}
	err := db.Model(&bookings.Booking{}).
		Select("status, COUNT(*) AS count").
		Where("hotel_id IN ?", hotelIDs).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to count bookings by status")
	}
	for _, row := range rows {
		totals.StatusCounts[row.Status] = row.Count
	}

	var guests int64
	err = db.Model(&bookings.Booking{}).
		Where("hotel_id IN ?", hotelIDs).
		Distinct("guest_id").
		Count(&guests).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to count guests")
	}
	totals.UniqueGuests = int(guests)

	err = db.Model(&bookings.Booking{}).
		Select("COALESCE(SUM(total_cost - refund_amount), 0)").
		Where("hotel_id IN ?", hotelIDs).
		Scan(&totals.NetRevenue).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to sum revenue")
	}
	return totals, nil
}

func (r *repository) GetBookingsCreatedSince(ctx context.Context, hotelIDs []uuid.UUID, since time.Time) ([]bookings.Booking, error) {
	if len(hotelIDs) == 0 {
		return []bookings.Booking{}, nil
	}
	var list []bookings.Booking
	err := r.db.WithContext(ctx).
		Select("id", "hotel_id", "guest_id", "status", "total_cost", "refund_amount", "created_at").
		Where("hotel_id IN ?", hotelIDs).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load recent bookings")
	}
	return list, nil
}
