package reviews

import (
	"homestay/internal/shared/middleware"
	"homestay/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupReviewRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	rg.GET("/hotels/:id/reviews", controller.ListHotelReviews)
	rg.POST("/bookings/:id/review", auth, middleware.RequireRole(users.RoleGuest), controller.SubmitReview)
}
