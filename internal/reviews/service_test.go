package reviews

import (
	"context"
	"errors"
	"strings"
	"testing"

	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateReview(ctx context.Context, review *Review) (*HotelRating, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*HotelRating), args.Error(1)
}

func (m *MockRepository) GetHotelReviews(ctx context.Context, hotelID uuid.UUID) ([]Review, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Review), args.Error(1)
}

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) GetHotelByID(ctx context.Context, id uuid.UUID) (*hotels.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotels.Hotel), args.Error(1)
}

func (m *MockHotelRepository) GetHotelsByOwner(ctx context.Context, ownerID uuid.UUID) ([]hotels.Hotel, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]hotels.Hotel), args.Error(1)
}

func (m *MockHotelRepository) GetHotelIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockHotelRepository) CreateHotel(ctx context.Context, hotel *hotels.Hotel) error {
	return m.Called(ctx, hotel).Error(0)
}

func TestSubmitReview(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, &MockHotelRepository{})

	guestID, bookingID, hotelID := uuid.New(), uuid.New(), uuid.New()
	repo.On("CreateReview", mock.Anything, mock.MatchedBy(func(r *Review) bool {
		return r.GuestID == guestID && r.BookingID == bookingID && r.Rating == 4 && r.Comment == "Lovely garden"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*Review).HotelID = hotelID
	}).Return(&HotelRating{AverageRating: 4.5, ReviewCount: 2}, nil)

	review, rating, err := svc.SubmitReview(context.Background(), guestID, bookingID, SubmitReviewInput{
		Rating:  4,
		Comment: "  Lovely garden ",
	})

	require.NoError(t, err)
	assert.Equal(t, hotelID, review.HotelID)
	assert.Equal(t, 2, rating.ReviewCount)
	repo.AssertExpectations(t)
}

func TestSubmitReview_Validation(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, &MockHotelRepository{})

	for _, input := range []SubmitReviewInput{
		{Rating: 0},
		{Rating: 6},
		{Rating: 3, Comment: strings.Repeat("a", MaxCommentLength+1)},
	} {
		_, _, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), input)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	}
	repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestSubmitReview_Ineligible(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, &MockHotelRepository{})
	repo.On("CreateReview", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("booking has already been reviewed"))

	_, _, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), SubmitReviewInput{Rating: 5})
	assert.True(t, errors.Is(err, apperr.ErrNotFoundOrIllegalState))
}

func TestListHotelReviews(t *testing.T) {
	repo := &MockRepository{}
	hotelRepo := &MockHotelRepository{}
	svc := NewService(repo, hotelRepo)

	known, unknown := uuid.New(), uuid.New()
	hotelRepo.On("GetHotelByID", mock.Anything, known).Return(&hotels.Hotel{ID: known}, nil)
	hotelRepo.On("GetHotelByID", mock.Anything, unknown).Return(nil, apperr.NotFound("hotel not found"))
	repo.On("GetHotelReviews", mock.Anything, known).Return([]Review{{Rating: 5}, {Rating: 3}}, nil)

	list, err := svc.ListHotelReviews(context.Background(), known)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListHotelReviews(context.Background(), unknown)
	assert.True(t, errors.Is(err, apperr.ErrNotFoundOrIllegalState))
	repo.AssertNumberOfCalls(t, "GetHotelReviews", 1)
}
