package bookings

import (
	"homestay/internal/shared/middleware"
	"homestay/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	// Public availability calendar
	rg.GET("/hotels/:id/availability", controller.CheckAvailability)

	bookings := rg.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.POST("", middleware.RequireRoles(users.RoleGuest, users.RoleAdmin), controller.CreateBooking)
		bookings.GET("/:id", controller.GetBooking)
		bookings.POST("/:id/id-proof", controller.UploadIDProof)
		bookings.POST("/:id/cancel", middleware.RequireRole(users.RoleGuest), controller.CancelBooking)

		staff := bookings.Group("")
		staff.Use(middleware.RequireRoles(users.RoleOwner, users.RoleAdmin))
		{
			staff.POST("/:id/id-proof/review", controller.ReviewIDProof)
			staff.POST("/:id/confirm", controller.ConfirmBooking)
			staff.POST("/:id/complete", controller.CompleteBooking)
		}
	}

	guests := rg.Group("/users")
	guests.Use(auth, middleware.RequireRole(users.RoleGuest))
	{
		guests.GET("/bookings", controller.ListGuestBookings)
	}

	owner := rg.Group("/owner")
	owner.Use(auth, middleware.RequireRoles(users.RoleOwner, users.RoleAdmin))
	{
		owner.GET("/bookings", controller.ListHotelBookings)
		owner.GET("/guests", controller.ListHotelGuests)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.POST("/:id/refunded", controller.MarkRefunded)
	}
}

// Route definitions for reference:
//
// AVAILABILITY
// GET    /api/v1/hotels/:id/availability?check_in=&check_out=&booking_type=  - Booked ranges, optional range check
//
// RESERVATION
// POST   /api/v1/bookings                             - Create a booking (guest, or admin for walk-ins)
// GET    /api/v1/bookings/:id                         - Get booking (guest, hotel owner, admin)
//
// ID PROOF
// POST   /api/v1/bookings/:id/id-proof                - Upload ID proof
// POST   /api/v1/bookings/:id/id-proof/review         - Approve or reject (owner/admin)
// Request body: { "decision": "approve|reject", "reason": "..." }
//
// LIFECYCLE
// POST   /api/v1/bookings/:id/cancel                  - Guest cancels, full refund
// POST   /api/v1/bookings/:id/confirm                 - Confirm a walk-in booking (owner/admin)
// POST   /api/v1/bookings/:id/complete                - Mark a past stay completed (owner/admin)
// POST   /api/v1/admin/bookings/:id/refunded          - Settle a pending refund (admin)
//
// LISTINGS
// GET    /api/v1/users/bookings                       - Guest's bookings, newest first
// GET    /api/v1/owner/bookings                       - Bookings across the owner's hotels
// GET    /api/v1/owner/guests                         - Owner's guests with stay history
