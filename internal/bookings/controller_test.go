package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"homestay/internal/shared/middleware"
	"homestay/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAuth stands in for JWTAuth and trusts the X-User headers
func testAuth(c *gin.Context) {
	if id := c.GetHeader("X-User-ID"); id != "" {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, c.GetHeader("X-User-Role"))
	}
	c.Next()
}

func newTestRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	r := gin.New()
	SetupBookingRoutes(r.Group("/api/v1"), NewController(f.svc), testAuth)
	return r
}

func doRequest(r *gin.Engine, method, path string, actor *Actor, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("X-User-ID", actor.ID.String())
		req.Header.Set("X-User-Role", string(actor.Role))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.StandardApiResponse {
	t.Helper()
	var resp response.StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func createBody(f *fixture, checkIn, checkOut string) map[string]interface{} {
	return map[string]interface{}{
		"hotel_id":     f.hotel.ID.String(),
		"check_in":     checkIn,
		"check_out":    checkOut,
		"adult_count":  2,
		"booking_type": "nightly",
	}
}

func TestCreateBookingHandler(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)

	w := doRequest(r, http.MethodPost, "/api/v1/bookings", &f.guest,
		createBody(f, "2024-01-05T00:00:00Z", "2024-01-07T00:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, StatusIDPending, created.Data.Status)
	assert.Equal(t, 5000.0, created.Data.TotalCost)

	// Same dates again
	w = doRequest(r, http.MethodPost, "/api/v1/bookings", &f.other,
		createBody(f, "2024-01-06T00:00:00Z", "2024-01-08T00:00:00Z"))
	assert.Equal(t, http.StatusConflict, w.Code)

	resp := decodeResponse(t, w)
	details, ok := resp.Errors.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "DatesUnavailable", details["kind"])
	assert.Equal(t, false, details["retryable"])
}

func TestCreateBookingHandler_BadRequests(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)

	testCases := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{"unknown booking type", func(b map[string]interface{}) { b["booking_type"] = "weekly" }},
		{"zero adults", func(b map[string]interface{}) { b["adult_count"] = 0 }},
		{"invalid hotel id", func(b map[string]interface{}) { b["hotel_id"] = "not-a-uuid" }},
		{"missing check-in", func(b map[string]interface{}) { delete(b, "check_in") }},
		{"reversed dates", func(b map[string]interface{}) {
			b["check_in"] = "2024-01-07T00:00:00Z"
			b["check_out"] = "2024-01-05T00:00:00Z"
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := createBody(f, "2024-01-05T00:00:00Z", "2024-01-07T00:00:00Z")
			tc.mutate(body)
			w := doRequest(r, http.MethodPost, "/api/v1/bookings", &f.guest, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCreateBookingHandler_RoleChecks(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)

	w := doRequest(r, http.MethodPost, "/api/v1/bookings", nil,
		createBody(f, "2024-01-05T00:00:00Z", "2024-01-07T00:00:00Z"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/bookings", &f.owner,
		createBody(f, "2024-01-05T00:00:00Z", "2024-01-07T00:00:00Z"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIDProofFlowHandlers(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)
	booking := f.create(t, f.guest, f.nightly("2024-01-05", "2024-01-07"))
	base := "/api/v1/bookings/" + booking.ID.String()

	w := doRequest(r, http.MethodPost, base+"/id-proof", &f.guest, map[string]string{
		"id_type":     "PAN Card",
		"front_image": "front.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, base+"/id-proof", &f.guest, map[string]string{
		"id_type":     "Driving License",
		"front_image": "front.jpg",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Guests cannot review
	w = doRequest(r, http.MethodPost, base+"/id-proof/review", &f.guest, map[string]string{"decision": "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, base+"/id-proof/review", &f.outside, map[string]string{"decision": "approve"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, base+"/id-proof/review", &f.owner, map[string]string{"decision": "reject"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ID proof rejected, booking refunded", decodeResponse(t, w).Message)

	stored, err := f.repo.GetBookingByID(t.Context(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.Equal(t, 5000.0, stored.RefundAmount)
}

func TestCancelBookingHandler(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)
	booking := f.create(t, f.guest, f.nightly("2024-01-05", "2024-01-07"))
	path := "/api/v1/bookings/" + booking.ID.String() + "/cancel"

	w := doRequest(r, http.MethodPost, path, &f.other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, path, &f.guest, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(r, http.MethodPost, path, &f.guest, map[string]string{"reason": "twice"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/bookings/not-a-uuid/cancel", &f.guest, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandler(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)
	f.create(t, f.guest, f.nightly("2024-01-05", "2024-01-07"))

	w := doRequest(r, http.MethodGet, "/api/v1/hotels/"+f.hotel.ID.String()+
		"/availability?check_in=2024-01-07T00:00:00Z&check_out=2024-01-09T00:00:00Z", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.BookedRanges, 1)
	require.NotNil(t, resp.Data.Available)
	assert.True(t, *resp.Data.Available)

	w = doRequest(r, http.MethodGet, "/api/v1/hotels/"+uuid.NewString()+"/availability", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListGuestBookingsHandler(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(t, f)
	f.create(t, f.guest, f.nightly("2024-01-05", "2024-01-07"))
	f.create(t, f.guest, f.nightly("2024-02-05", "2024-02-07"))

	w := doRequest(r, http.MethodGet, "/api/v1/users/bookings", &f.guest, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data BookingListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)

	w = doRequest(r, http.MethodGet, "/api/v1/owner/guests", &f.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
