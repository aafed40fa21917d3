package reviews

import (
	"net/http"

	"homestay/internal/shared/middleware"
	"homestay/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SubmitReview handles POST /api/v1/bookings/:id/review
func (c *Controller) SubmitReview(ctx *gin.Context) {
	userID, _, ok := middleware.CurrentUser(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	guestID, err := uuid.Parse(userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user ID", nil, nil)
		return
	}
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	review, rating, err := c.service.SubmitReview(ctx.Request.Context(), guestID, bookingID, SubmitReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Review submitted successfully",
		SubmitReviewResponse{Review: review, Hotel: rating}, nil)
}

// ListHotelReviews handles GET /api/v1/hotels/:id/reviews
func (c *Controller) ListHotelReviews(ctx *gin.Context) {
	hotelID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid hotel ID", nil, nil)
		return
	}

	list, err := c.service.ListHotelReviews(ctx.Request.Context(), hotelID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reviews retrieved successfully",
		ReviewListResponse{Reviews: list, Total: len(list)}, nil)
}
