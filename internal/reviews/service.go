package reviews

import (
	"context"
	"strings"
	"unicode/utf8"

	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"
	"homestay/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	SubmitReview(ctx context.Context, guestID, bookingID uuid.UUID, input SubmitReviewInput) (*Review, *HotelRating, error)
	ListHotelReviews(ctx context.Context, hotelID uuid.UUID) ([]Review, error)
}

type SubmitReviewInput struct {
	Rating  int
	Comment string
}

type service struct {
	repo   Repository
	hotels hotels.Repository
	log    *logger.Logger
}

func NewService(repo Repository, hotelRepo hotels.Repository) Service {
	return &service{
		repo:   repo,
		hotels: hotelRepo,
		log:    logger.GetDefault().WithComponent("reviews"),
	}
}

func (s *service) SubmitReview(ctx context.Context, guestID, bookingID uuid.UUID, input SubmitReviewInput) (*Review, *HotelRating, error) {
	if input.Rating < MinRating || input.Rating > MaxRating {
		return nil, nil, apperr.Validation("rating must be between %d and %d", MinRating, MaxRating)
	}
	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, nil, apperr.Validation("comment must be at most %d characters", MaxCommentLength)
	}

	review := &Review{
		ID:        uuid.New(),
		BookingID: bookingID,
		GuestID:   guestID,
		Rating:    input.Rating,
		Comment:   comment,
	}
	rating, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, nil, err
	}

	s.log.InfoContext(ctx, "Review submitted",
		"review_id", review.ID.String(),
		"hotel_id", review.HotelID.String(),
		"rating", review.Rating,
		"average_rating", rating.AverageRating,
	)
	return review, rating, nil
}

func (s *service) ListHotelReviews(ctx context.Context, hotelID uuid.UUID) ([]Review, error) {
	if _, err := s.hotels.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.repo.GetHotelReviews(ctx, hotelID)
}
