package analytics

import (
	"time"

	"homestay/internal/bookings"
)

// Dashboard summarizes the bookings of every hotel an owner lists
type Dashboard struct {
	OwnerID              string         `json:"owner_id"`
	GeneratedAt          time.Time      `json:"generated_at"`
	HotelCount           int            `json:"hotel_count"`
	TotalBookings        int            `json:"total_bookings"`
	UniqueGuests         int            `json:"unique_guests"`
	RecentBookings       int            `json:"recent_bookings"`
	TotalRevenue         float64        `json:"total_revenue"`
	CurrentMonthRevenue  float64        `json:"current_month_revenue"`
	PreviousMonthRevenue float64        `json:"previous_month_revenue"`
	RevenueGrowth        float64        `json:"revenue_growth"`
	OccupancyRate        float64        `json:"occupancy_rate"`
	StatusBreakdown      []StatusBucket `json:"status_breakdown"`
	DailySeries          []DailyPoint   `json:"daily_series"`
	Hotels               []HotelSummary `json:"hotels"`
}

type StatusBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DailyPoint struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type HotelSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalBookings int     `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Totals are the all-time aggregates computed by the store
type Totals struct {
	StatusCounts map[bookings.Status]int
	UniqueGuests int
	NetRevenue   float64
}

func (t Totals) Count() int {
	n := 0
	for _, c := range t.StatusCounts {
		n += c
	}
	return n
}

// Forecast is the weekly history of an owner's bookings and its projection
type Forecast struct {
	OwnerID      string          `json:"owner_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	History      []WeeklyPoint   `json:"history"`
	Projection   []ForecastPoint `json:"projection"`
	BookingTrend SeriesTrend     `json:"booking_trend"`
	RevenueTrend SeriesTrend     `json:"revenue_trend"`
}

type WeeklyPoint struct {
	Index     int     `json:"index"`
	WeekStart string  `json:"week_start"`
	Bookings  int     `json:"bookings"`
	Revenue   float64 `json:"revenue"`
}

type ForecastPoint struct {
	WeeksAhead int     `json:"weeks_ahead"`
	WeekStart  string  `json:"week_start"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Confidence float64 `json:"confidence"`
}

type SeriesTrend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Trend     string  `json:"trend"`
}

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)
