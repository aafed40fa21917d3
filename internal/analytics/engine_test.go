package analytics

import (
	"testing"
	"time"

	"homestay/internal/bookings"
	"homestay/internal/hotels"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(created string, cost float64, status bookings.Status) bookings.Booking {
	return bookings.Booking{
		ID:        uuid.New(),
		GuestID:   uuid.New(),
		Status:    status,
		TotalCost: cost,
		CreatedAt: at(created),
	}
}

func TestRevenueGrowth(t *testing.T) {
	assert.Equal(t, 50.0, RevenueGrowth(300, 200))
	assert.Equal(t, -25.0, RevenueGrowth(150, 200))
	assert.Equal(t, 100.0, RevenueGrowth(1, 0))
	assert.Equal(t, 0.0, RevenueGrowth(0, 0))
	assert.Equal(t, -100.0, RevenueGrowth(0, 200))
}

func TestStatusBreakdown_OmitsEmptyBuckets(t *testing.T) {
	got := StatusBreakdown(map[bookings.Status]int{
		bookings.StatusConfirmed:   2,
		bookings.StatusPaymentDone: 1,
		bookings.StatusRejected:    1,
		bookings.StatusCancelled:   3,
		bookings.StatusRefunded:    5,
	})

	assert.Equal(t, []StatusBucket{
		{Label: "Confirmed", Count: 3},
		{Label: "Cancelled", Count: 4},
	}, got)
	assert.Empty(t, StatusBreakdown(nil))
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0.0, OccupancyRate(10, 0))
	assert.Equal(t, 10.0, OccupancyRate(30, 1))
	assert.InDelta(t, 5.0, OccupancyRate(30, 2), 1e-9)
}

func TestDailySeries(t *testing.T) {
	now := at("2024-03-30 18:00")
	series := DailySeries(now, []bookings.Booking{
		booking("2024-03-30 09:00", 100, bookings.StatusConfirmed),
		booking("2024-03-30 10:00", 50, bookings.StatusIDPending),
		booking("2024-03-01 00:00", 70, bookings.StatusCompleted),
		booking("2024-02-29 23:59", 999, bookings.StatusCompleted),
	})

	require.Len(t, series, DailySeriesDays)
	assert.Equal(t, "2024-03-01", series[0].Date)
	assert.Equal(t, 1, series[0].Bookings)
	assert.Equal(t, 70.0, series[0].Revenue)
	assert.Equal(t, "2024-03-30", series[29].Date)
	assert.Equal(t, 2, series[29].Bookings)
	assert.Equal(t, 150.0, series[29].Revenue)
}

func TestBuildDashboard(t *testing.T) {
	now := at("2024-03-15 12:00")
	owned := []hotels.Hotel{
		{ID: uuid.New(), Name: "Lakeview", TotalBookings: 4, TotalRevenue: 9000, AverageRating: 4.5, ReviewCount: 2},
		{ID: uuid.New(), Name: "Hillside"},
	}

	refunded := booking("2024-03-02 10:00", 400, bookings.StatusCancelled)
	refunded.RefundAmount = 400
	recent := []bookings.Booking{
		booking("2024-02-10 10:00", 2000, bookings.StatusCompleted),
		booking("2024-03-01 10:00", 3000, bookings.StatusConfirmed),
		refunded,
		booking("2024-03-14 10:00", 1000, bookings.StatusIDPending),
	}
	totals := Totals{
		StatusCounts: map[bookings.Status]int{
			bookings.StatusCompleted: 2,
			bookings.StatusConfirmed: 1,
			bookings.StatusCancelled: 1,
			bookings.StatusIDPending: 1,
		},
		UniqueGuests: 4,
		NetRevenue:   7500,
	}

	d := BuildDashboard(now, owned, totals, recent)

	assert.Equal(t, 2, d.HotelCount)
	assert.Equal(t, 5, d.TotalBookings)
	assert.Equal(t, 4, d.UniqueGuests)
	assert.Equal(t, 7500.0, d.TotalRevenue)
	assert.Equal(t, 4000.0, d.CurrentMonthRevenue)
	assert.Equal(t, 2000.0, d.PreviousMonthRevenue)
	assert.Equal(t, 100.0, d.RevenueGrowth)
	assert.Equal(t, 3, d.RecentBookings)
	// 4 non-cancelled over 2 hotels x 10 rooms x 30 days
	assert.InDelta(t, 0.67, d.OccupancyRate, 1e-9)
	assert.Equal(t, []StatusBucket{
		{Label: "Confirmed", Count: 1},
		{Label: "Pending", Count: 1},
		{Label: "Completed", Count: 2},
		{Label: "Cancelled", Count: 1},
	}, d.StatusBreakdown)
	assert.Len(t, d.DailySeries, DailySeriesDays)
	require.Len(t, d.Hotels, 2)
	assert.Equal(t, "Lakeview", d.Hotels[0].Name)
}

func TestDashboardWindowStart(t *testing.T) {
	// Early in the month the previous month starts first
	assert.Equal(t, at("2024-02-01 00:00"), DashboardWindowStart(at("2024-03-05 12:00")))
	// On the first of a month after a short month the daily series reaches back further
	assert.Equal(t, at("2024-01-31 00:00"), DashboardWindowStart(at("2024-03-01 12:00")))
	assert.Equal(t, at("2024-06-01 00:00"), DashboardWindowStart(at("2024-07-20 08:00")))
}

func TestWeekStart(t *testing.T) {
	// 2024-03-13 is a Wednesday
	assert.Equal(t, at("2024-03-10 00:00"), WeekStart(at("2024-03-13 15:30")))
	assert.Equal(t, at("2024-03-10 00:00"), WeekStart(at("2024-03-10 00:00")))
	assert.Equal(t, at("2024-03-10 00:00"), WeekStart(at("2024-03-16 23:59")))
}

func TestBuildForecast_SingleWeekRepeats(t *testing.T) {
	now := at("2024-03-15 12:00")
	list := []bookings.Booking{
		booking("2024-03-10 09:00", 3000, bookings.StatusConfirmed),
		booking("2024-03-11 09:00", 3000, bookings.StatusConfirmed),
		booking("2024-03-12 09:00", 3000, bookings.StatusIDPending),
	}

	f := BuildForecast(now, list)

	require.Len(t, f.History, 1)
	assert.Equal(t, WeeklyPoint{Index: 0, WeekStart: "2024-03-10", Bookings: 3, Revenue: 9000}, f.History[0])
	require.Len(t, f.Projection, ForecastHorizonWeeks)

	confidences := make([]float64, 0, len(f.Projection))
	for _, p := range f.Projection {
		assert.Equal(t, 3, p.Bookings)
		assert.Equal(t, 9000.0, p.Revenue)
		confidences = append(confidences, p.Confidence)
	}
	assert.Equal(t, []float64{0.9, 0.8, 0.7, 0.6}, confidences)
	assert.Equal(t, "2024-03-17", f.Projection[0].WeekStart)
	assert.Equal(t, TrendStable, f.BookingTrend.Trend)
	assert.Equal(t, TrendStable, f.RevenueTrend.Trend)
}

func TestBuildForecast_Trend(t *testing.T) {
	now := at("2024-03-30 12:00")
	var list []bookings.Booking
	// Weeks starting 03-03, 03-10, 03-17, 03-24 with 1, 2, 3, 4 bookings
	for week, count := range []int{1, 2, 3, 4} {
		day := at("2024-03-04 10:00").AddDate(0, 0, 7*week)
		for i := 0; i < count; i++ {
			b := booking("2024-03-04 10:00", 1000, bookings.StatusConfirmed)
			b.CreatedAt = day
			list = append(list, b)
		}
	}
	// Outside the look-back window
	list = append(list, booking("2024-01-01 10:00", 5000, bookings.StatusCompleted))

	f := BuildForecast(now, list)

	require.Len(t, f.History, 4)
	assert.Equal(t, TrendIncreasing, f.BookingTrend.Trend)
	assert.Equal(t, 1.0, f.BookingTrend.Slope)
	assert.Equal(t, 1.0, f.BookingTrend.Intercept)
	assert.Equal(t, 5, f.Projection[0].Bookings)
	assert.Equal(t, 8, f.Projection[3].Bookings)
	assert.Equal(t, 5000.0, f.Projection[0].Revenue)
}

func TestProjectForecast_ClampsAtZero(t *testing.T) {
	line := Regression{Slope: -5, Intercept: 10, Points: 3}
	points := ProjectForecast(line, line, 3, at("2024-03-10 00:00"))

	for _, p := range points {
		assert.GreaterOrEqual(t, p.Bookings, 0)
		assert.GreaterOrEqual(t, p.Revenue, 0.0)
	}
	assert.Equal(t, 0, points[0].Bookings)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.9, Confidence(1))
	assert.Equal(t, 0.6, Confidence(4))
	assert.Equal(t, 0.6, Confidence(10))
}
