package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis keys and TTL values for the Homestay application
// Pattern: homestay:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for analytics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for forecasts between bookings
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for booked ranges
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 5 * time.Second // 5 seconds - for hotel booking locks
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "homestay"
)

// ================== BOOKINGS MODULE ==================

// Booking Keys
const (
	// Booked ranges of a hotel (advisory, cleared on every write)
	CACHE_KEY_HOTEL_BOOKED_RANGES = CACHE_PREFIX + ":bookings:ranges:hotel:" // + hotel-id

	// Per hotel creation lock
	LOCK_KEY_HOTEL_BOOKING = CACHE_PREFIX + ":bookings:lock:hotel:" // + hotel-id
)

// Booking TTLs
const (
	TTL_HOTEL_BOOKED_RANGES = TTL_DYNAMIC_QUICK  // 2 minutes
	TTL_HOTEL_BOOKING_LOCK  = TTL_REALTIME_SHORT // 5 seconds
)

// ================== ANALYTICS MODULE ==================

// Analytics Cache Keys
const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard:owner:" // + owner-id
	CACHE_KEY_ANALYTICS_FORECAST  = CACHE_PREFIX + ":analytics:forecast:owner:"  // + owner-id
)

// Analytics Cache TTLs
const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_ANALYTICS_FORECAST  = TTL_DYNAMIC_SHORT  // 5 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_ANALYTICS     = CACHE_PREFIX + ":analytics:*"
	PATTERN_INVALIDATE_BOOKED_RANGES = CACHE_KEY_HOTEL_BOOKED_RANGES + "*"
)

// ================== HELPER FUNCTIONS ==================

func BuildHotelBookedRangesKey(hotelID string) string {
	return CACHE_KEY_HOTEL_BOOKED_RANGES + hotelID
}

func BuildHotelLockKey(hotelID string) string {
	return LOCK_KEY_HOTEL_BOOKING + hotelID
}

func BuildAnalyticsDashboardKey(ownerID string) string {
	return CACHE_KEY_ANALYTICS_DASHBOARD + ownerID
}

// BuildAnalyticsForecastKey includes the day so a cached forecast never outlives its window
func BuildAnalyticsForecastKey(ownerID string, day time.Time) string {
	return fmt.Sprintf("%s%s:day:%s", CACHE_KEY_ANALYTICS_FORECAST, ownerID, day.UTC().Format("2006-01-02"))
}

// BuildAnalyticsOwnerPattern matches every analytics entry of one owner
func BuildAnalyticsOwnerPattern(ownerID string) string {
	return CACHE_PREFIX + ":analytics:*:owner:" + ownerID + "*"
}
