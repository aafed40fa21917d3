package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homestay/internal/shared/middleware"
	"homestay/internal/shared/utils/response"
	"homestay/internal/users"
)

// Controller defines the analytics controller interface
type Controller interface {
	GetDashboard(c *gin.Context)
	GetForecast(c *gin.Context)
}

// controller implements the Controller interface
type controller struct {
	service Service
}

// NewController creates a new analytics controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

// GetDashboard handles GET /api/v1/owner/analytics/dashboard?refresh=true
func (ctrl *controller) GetDashboard(c *gin.Context) {
	ownerID, ok := ctrl.resolveOwner(c)
	if !ok {
		return
	}

	dashboard, err := ctrl.service.GetDashboard(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

// GetForecast handles GET /api/v1/owner/analytics/forecast
func (ctrl *controller) GetForecast(c *gin.Context) {
	ownerID, ok := ctrl.resolveOwner(c)
	if !ok {
		return
	}

	forecast, err := ctrl.service.GetForecast(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Forecast retrieved successfully", forecast, nil)
}

// resolveOwner picks the caller, or for admins an explicit owner_id, and honours refresh
func (ctrl *controller) resolveOwner(c *gin.Context) (uuid.UUID, bool) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	raw := userID
	if role == users.RoleAdmin && c.Query("owner_id") != "" {
		raw = c.Query("owner_id")
	}
	ownerID, err := uuid.Parse(raw)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid owner ID", nil, nil)
		return uuid.Nil, false
	}

	if c.Query("refresh") == "true" {
		if err := ctrl.service.InvalidateOwner(c.Request.Context(), ownerID); err != nil {
			response.RespondError(c, err)
			return uuid.Nil, false
		}
	}
	return ownerID, true
}
