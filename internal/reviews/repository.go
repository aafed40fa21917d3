package reviews

import (
	"context"
	"errors"

	"homestay/internal/bookings"
	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// CreateReview inserts the review and refreshes the hotel rating atomically
	CreateReview(ctx context.Context, review *Review) (*HotelRating, error)
	GetHotelReviews(ctx context.Context, hotelID uuid.UUID) ([]Review, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateReview(ctx context.Context, review *Review) (*HotelRating, error) {
	var rating HotelRating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking bookings.Booking
		err := tx.Where("id = ?", review.BookingID).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("booking not found")
			}
			return apperr.Dependency(err, "failed to load booking")
		}

		// Reviews of one hotel are serialized on its row
		var hotel hotels.Hotel
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", booking.HotelID).
			First(&hotel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("hotel not found")
			}
			return apperr.Dependency(err, "failed to lock hotel")
		}

		var existing int64
		if err := tx.Model(&Review{}).Where("booking_id = ?", booking.ID).Count(&existing).Error; err != nil {
			return apperr.Dependency(err, "failed to check existing review")
		}
		if err := CheckEligibility(&booking, review.GuestID, existing > 0); err != nil {
			return err
		}

		review.HotelID = booking.HotelID
		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.NotFound("booking has already been reviewed")
			}
			return apperr.Dependency(err, "failed to create review")
		}

		err = tx.Model(&Review{}).
			Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
			Where("hotel_id = ?", booking.HotelID).
			Scan(&rating).Error
		if err != nil {
			return apperr.Dependency(err, "failed to aggregate ratings")
		}

		err = tx.Model(&hotels.Hotel{}).
			Where("id = ?", booking.HotelID).
			UpdateColumns(map[string]interface{}{
				"average_rating": rating.AverageRating,
				"review_count":   rating.ReviewCount,
			}).Error
		if err != nil {
			return apperr.Dependency(err, "failed to update hotel rating")
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Dependency(err, "failed to create review")
	}
	return &rating, nil
}

func (r *repository) GetHotelReviews(ctx context.Context, hotelID uuid.UUID) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load reviews")
	}
	return reviews, nil
}
