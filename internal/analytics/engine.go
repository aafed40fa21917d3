package analytics

import (
	"math"
	"sort"
	"time"

	"homestay/internal/bookings"
	"homestay/internal/hotels"
)

const (
	// AssumedRoomsPerHotel is the fixed capacity used for occupancy; hotels do not track inventory
	AssumedRoomsPerHotel = 10
	OccupancyWindowDays  = 30

	RecentWindowDays     = 30
	DailySeriesDays      = 30
	ForecastLookbackDays = 60
	ForecastHorizonWeeks = 4

	MinConfidence   = 0.6
	ConfidenceDecay = 0.1
)

const dateLayout = "2006-01-02"

type bucket struct {
	label    string
	statuses []bookings.Status
}

var statusBuckets = []bucket{
	{"Confirmed", []bookings.Status{bookings.StatusConfirmed, bookings.StatusPaymentDone}},
	{"Pending", []bookings.Status{bookings.StatusIDPending, bookings.StatusIDSubmitted}},
	{"Completed", []bookings.Status{bookings.StatusCompleted}},
	{"Cancelled", []bookings.Status{bookings.StatusCancelled, bookings.StatusRejected}},
}

// DashboardWindowStart is the earliest creation time BuildDashboard reads from recent bookings
func DashboardWindowStart(now time.Time) time.Time {
	now = now.UTC()
	seriesStart := startOfDay(now).AddDate(0, 0, -(DailySeriesDays - 1))
	recentStart := now.AddDate(0, 0, -RecentWindowDays)
	previousMonth := startOfMonth(now).AddDate(0, -1, 0)

	earliest := seriesStart
	for _, t := range []time.Time{recentStart, previousMonth} {
		if t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

// BuildDashboard combines all-time totals with bookings created since DashboardWindowStart(now)
func BuildDashboard(now time.Time, ownedHotels []hotels.Hotel, totals Totals, recent []bookings.Booking) Dashboard {
	now = now.UTC()
	dashboard := Dashboard{
		GeneratedAt:   now,
		HotelCount:    len(ownedHotels),
		TotalBookings: totals.Count(),
		UniqueGuests:  totals.UniqueGuests,
		TotalRevenue:  round(totals.NetRevenue, 2),
	}

	monthStart := startOfMonth(now)
	previousStart := monthStart.AddDate(0, -1, 0)
	recentStart := now.AddDate(0, 0, -RecentWindowDays)

	var current, previous float64
	for _, b := range recent {
		created := b.CreatedAt.UTC()
		revenue := netRevenue(b)
		switch {
		case !created.Before(monthStart):
			current += revenue
		case !created.Before(previousStart):
			previous += revenue
		}
		if !created.Before(recentStart) && !created.After(now) {
			dashboard.RecentBookings++
		}
	}
	dashboard.CurrentMonthRevenue = round(current, 2)
	dashboard.PreviousMonthRevenue = round(previous, 2)
	dashboard.RevenueGrowth = round(RevenueGrowth(current, previous), 2)

	dashboard.StatusBreakdown = StatusBreakdown(totals.StatusCounts)
	dashboard.OccupancyRate = round(OccupancyRate(nonCancelled(totals.StatusCounts), len(ownedHotels)), 2)
	dashboard.DailySeries = DailySeries(now, recent)

	dashboard.Hotels = make([]HotelSummary, 0, len(ownedHotels))
	for _, h := range ownedHotels {
		dashboard.Hotels = append(dashboard.Hotels, HotelSummary{
			ID:            h.ID.String(),
			Name:          h.Name,
			TotalBookings: h.TotalBookings,
			TotalRevenue:  round(h.TotalRevenue, 2),
			AverageRating: round(h.AverageRating, 2),
			ReviewCount:   h.ReviewCount,
		})
	}
	return dashboard
}

// RevenueGrowth is month-over-month growth in percent. Without a previous
// month it is 100 for any revenue and 0 otherwise.
func RevenueGrowth(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// StatusBreakdown groups status counts into dashboard buckets, leaving out empty ones
func StatusBreakdown(counts map[bookings.Status]int) []StatusBucket {
	out := []StatusBucket{}
	for _, b := range statusBuckets {
		n := 0
		for _, s := range b.statuses {
			n += counts[s]
		}
		if n > 0 {
			out = append(out, StatusBucket{Label: b.label, Count: n})
		}
	}
	return out
}

func OccupancyRate(nonCancelled, hotelCount int) float64 {
	if hotelCount == 0 {
		return 0
	}
	capacity := float64(hotelCount * AssumedRoomsPerHotel * OccupancyWindowDays)
	return float64(nonCancelled) / capacity * 100
}

// DailySeries buckets bookings by creation date over the trailing days, today included
func DailySeries(now time.Time, recent []bookings.Booking) []DailyPoint {
	today := startOfDay(now.UTC())
	first := today.AddDate(0, 0, -(DailySeriesDays - 1))

	series := make([]DailyPoint, DailySeriesDays)
	index := make(map[string]int, DailySeriesDays)
	for i := range series {
		day := first.AddDate(0, 0, i).Format(dateLayout)
		series[i].Date = day
		index[day] = i
	}

	for _, b := range recent {
		i, ok := index[b.CreatedAt.UTC().Format(dateLayout)]
		if !ok {
			continue
		}
		series[i].Bookings++
		series[i].Revenue += netRevenue(b)
	}
	for i := range series {
		series[i].Revenue = round(series[i].Revenue, 2)
	}
	return series
}

// WeeklyHistory groups bookings created in the look-back window into Sunday-based weeks
func WeeklyHistory(now time.Time, list []bookings.Booking) []WeeklyPoint {
	since := now.UTC().AddDate(0, 0, -ForecastLookbackDays)

	weeks := make(map[time.Time]*WeeklyPoint)
	for _, b := range list {
		created := b.CreatedAt.UTC()
		if created.Before(since) || created.After(now) {
			continue
		}
		start := WeekStart(created)
		w, ok := weeks[start]
		if !ok {
			w = &WeeklyPoint{WeekStart: start.Format(dateLayout)}
			weeks[start] = w
		}
		w.Bookings++
		w.Revenue += netRevenue(b)
	}

	starts := make([]time.Time, 0, len(weeks))
	for start := range weeks {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	history := make([]WeeklyPoint, len(starts))
	for i, start := range starts {
		history[i] = *weeks[start]
		history[i].Index = i
		history[i].Revenue = round(history[i].Revenue, 2)
	}
	return history
}

// BuildForecast fits both weekly series and projects ForecastHorizonWeeks ahead
func BuildForecast(now time.Time, list []bookings.Booking) Forecast {
	now = now.UTC()
	history := WeeklyHistory(now, list)

	counts := make([]float64, len(history))
	revenue := make([]float64, len(history))
	for i, w := range history {
		counts[i] = float64(w.Bookings)
		revenue[i] = w.Revenue
	}
	countLine := LinearRegression(counts)
	revenueLine := LinearRegression(revenue)

	lastWeek := WeekStart(now)
	if len(history) > 0 {
		lastWeek, _ = time.Parse(dateLayout, history[len(history)-1].WeekStart)
	}

	return Forecast{
		GeneratedAt:  now,
		History:      history,
		Projection:   ProjectForecast(countLine, revenueLine, len(history), lastWeek),
		BookingTrend: countLine.Summary(),
		RevenueTrend: revenueLine.Summary(),
	}
}

// ProjectForecast extends both lines past the last of n historical weeks
func ProjectForecast(counts, revenue Regression, n int, lastWeek time.Time) []ForecastPoint {
	out := make([]ForecastPoint, 0, ForecastHorizonWeeks)
	last := n - 1
	if last < 0 {
		last = 0
	}
	for k := 1; k <= ForecastHorizonWeeks; k++ {
		x := float64(last + k)
		out = append(out, ForecastPoint{
			WeeksAhead: k,
			WeekStart:  lastWeek.AddDate(0, 0, 7*k).Format(dateLayout),
			Bookings:   int(math.Round(math.Max(0, counts.At(x)))),
			Revenue:    round(math.Max(0, revenue.At(x)), 2),
			Confidence: Confidence(k),
		})
	}
	return out
}

// Confidence decays linearly with the horizon and is floored
func Confidence(weeksAhead int) float64 {
	return round(math.Max(MinConfidence, 1-ConfidenceDecay*float64(weeksAhead)), 2)
}

// WeekStart returns midnight UTC of the Sunday starting t's week
func WeekStart(t time.Time) time.Time {
	day := startOfDay(t.UTC())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func nonCancelled(counts map[bookings.Status]int) int {
	n := 0
	for s, c := range counts {
		if s == bookings.StatusCancelled || s == bookings.StatusRejected {
			continue
		}
		n += c
	}
	return n
}

// netRevenue is what the booking still earns after refunds
func netRevenue(b bookings.Booking) float64 {
	return b.TotalCost - b.RefundAmount
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
