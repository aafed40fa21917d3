package bookings

import (
	"context"
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

// CheckAvailability handles GET /api/v1/hotels/:id/availability
func (c *Controller) CheckAvailability(ctx *gin.Context) {
	hotelID, ok := parseID(ctx, "id", "Invalid hotel ID")
	if !ok {
		return
	}

	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	ranges, err := c.service.CheckAvailability(ctx.Request.Context(), hotelID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	result := AvailabilityResponse{HotelID: hotelID.String(), BookedRanges: ranges}
	if query.CheckIn != nil && query.CheckOut != nil {
		bookingType := BookingType(query.BookingType)
		if bookingType == "" {
			bookingType = BookingTypeNightly
		}
		free, err := c.service.IsRangeFree(ctx.Request.Context(), hotelID,
			Interval{CheckIn: query.CheckIn.UTC(), CheckOut: query.CheckOut.UTC()}, bookingType)
		if err != nil {
			response.RespondError(ctx, err)
			return
		}
		result.Available = &free
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", result, nil)
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	input := CreateBookingInput{
		HotelID:     uuid.MustParse(req.HotelID),
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		AdultCount:  req.AdultCount,
		ChildCount:  req.ChildCount,
		BookingType: BookingType(req.BookingType),
		Contact: Contact{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		},
		SpecialRequests:  req.SpecialRequests,
		SkipIDCollection: req.SkipIDCollection,
	}
	if req.GuestID != "" {
		input.GuestID = uuid.MustParse(req.GuestID)
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), actor, input)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseID(ctx, "id", "Invalid booking ID")
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// UploadIDProof handles POST /api/v1/bookings/:id/id-proof
func (c *Controller) UploadIDProof(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseID(ctx, "id", "Invalid booking ID")
	if !ok {
		return
	}

	var req UploadIDProofRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.UploadIDProof(ctx.Request.Context(), actor, bookingID, UploadIDProofInput{
		Type:       IDProofType(req.IDType),
		FrontImage: req.FrontImage,
		BackImage:  req.BackImage,
	})
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "ID proof submitted successfully", booking, nil)
}

// ReviewIDProof handles POST /api/v1/bookings/:id/id-proof/review
func (c *Controller) ReviewIDProof(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseID(ctx, "id", "Invalid booking ID")
	if !ok {
		return
	}

	var req ReviewIDProofRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.ReviewIDProof(ctx.Request.Context(), actor, bookingID, Decision(req.Decision), req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	message := "ID proof verified, booking confirmed"
	if booking.Status == StatusRejected {
		message = "ID proof rejected, booking refunded"
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, booking, nil)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	c.staffAction(ctx, c.service.ConfirmBooking, "Booking confirmed successfully")
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	c.staffAction(ctx, c.service.CompleteBooking, "Booking completed successfully")
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseID(ctx, "id", "Invalid booking ID")
	if !ok {
		return
	}

	var req CancelBookingRequest
	// Body is optional
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), actor.ID, bookingID, req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// MarkRefunded handles POST /api/v1/admin/bookings/:id/refunded
func (c *Controller) MarkRefunded(ctx *gin.Context) {
	bookingID, ok := parseID(ctx, "id", "Invalid booking ID")
	if !ok {
		return
	}

	booking, err := c.service.MarkRefunded(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking marked as refunded", booking, nil)
}

// ListGuestBookings handles GET /api/v1/users/bookings
func (c *Controller) ListGuestBookings(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	list, err := c.service.ListGuestBookings(ctx.Request.Context(), actor.ID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully",
		BookingListResponse{Bookings: list, Total: len(list)}, nil)
}

// ListHotelBookings handles GET /api/v1/owner/bookings
func (c *Controller) ListHotelBookings(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	list, err := c.service.ListHotelBookings(ctx.Request.Context(), actor.ID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hotel bookings retrieved successfully",
		BookingListResponse{Bookings: list, Total: len(list)}, nil)
}

// ListHotelGuests handles GET /api/v1/owner/guests
func (c *Controller) ListHotelGuests(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	guests, err := c.service.ListHotelGuests(ctx.Request.Context(), actor.ID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hotel guests retrieved successfully",
		HotelGuestListResponse{Guests: guests, Total: len(guests)}, nil)
}

func (c *Controller) staffAction(ctx *gin.Context, action func(context.Context, Actor, uuid.UUID) (*Booking, error), message string) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	bookingID, ok := parseID(ctx, "id", "Invalid booking ID")
	if !ok {
		return
	}

	booking, err := action(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, booking, nil)
}

func currentActor(ctx *gin.Context) (Actor, bool) {
	userID, role, ok := middleware.CurrentUser(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return Actor{}, false
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user ID", nil, nil)
		return Actor{}, false
	}
	return Actor{ID: id, Role: role}, true
}

func parseID(ctx *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, nil)
		return uuid.Nil, false
	}
	return id, true
}
