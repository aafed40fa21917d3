// Command cachecheck exercises the cached read endpoints of a running server
// and reports whether each second request was served from Redis.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"homestay/internal/hotels"
	"homestay/internal/shared/config"
	"homestay/internal/shared/constants"
	"homestay/internal/shared/database"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

type CacheCheckResult struct {
	Name         string        `json:"name"`
	Endpoint     string        `json:"endpoint"`
	KeyPresent   bool          `json:"key_present"`
	FirstCall    time.Duration `json:"first_call"`
	SecondCall   time.Duration `json:"second_call"`
	StatusCode   int           `json:"status_code"`
	ResponseSize int           `json:"response_size"`
	Error        string        `json:"error,omitempty"`
}

type checkCase struct {
	name     string
	endpoint string
	cacheKey string
	auth     bool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}
	defer db.Close()
	if db.Redis == nil {
		log.Fatal("❌ Redis is not configured")
	}
	fmt.Println("✅ Redis connection: OK")

	var hotel hotels.Hotel
	if err := db.PostgreSQL.Order("created_at ASC").First(&hotel).Error; err != nil {
		log.Fatalf("❌ No hotel found, run the seed command first: %v", err)
	}

	token, err := ownerToken(cfg.JWT.Secret, hotel.OwnerID.String())
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}

	baseURL := getenv("CACHECHECK_BASE_URL", "http://localhost:"+cfg.Port+cfg.GetAPIBasePath())
	ownerID := hotel.OwnerID.String()
	cases := []checkCase{
		{"Booked ranges", "/hotels/" + hotel.ID.String() + "/availability", constants.BuildHotelBookedRangesKey(hotel.ID.String()), false},
		{"Owner dashboard", "/owner/analytics/dashboard", constants.BuildAnalyticsDashboardKey(ownerID), true},
		{"Owner forecast", "/owner/analytics/forecast", constants.BuildAnalyticsForecastKey(ownerID, time.Now()), true},
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 30 * time.Second}
	var results []CacheCheckResult

	for _, tc := range cases {
		fmt.Printf("\n🔍 Checking: %s\n", tc.name)
		db.Redis.Del(ctx, tc.cacheKey)

		result := CacheCheckResult{Name: tc.name, Endpoint: tc.endpoint}
		first, _, _, err := call(client, baseURL+tc.endpoint, token, tc.auth)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			fmt.Printf("   ❌ %v\n", err)
			continue
		}
		second, status, size, err := call(client, baseURL+tc.endpoint, token, tc.auth)
		if err != nil {
			result.Error = err.Error()
		}

		exists, _ := db.Redis.Exists(ctx, tc.cacheKey).Result()
		result.FirstCall, result.SecondCall = first, second
		result.StatusCode, result.ResponseSize = status, size
		result.KeyPresent = exists == 1
		results = append(results, result)

		icon := "🔥"
		if !result.KeyPresent {
			icon = "💾"
		}
		fmt.Printf("   %s HTTP %d, key cached=%t, %v -> %v (%d bytes)\n",
			icon, status, result.KeyPresent, first, second, size)
	}

	report, _ := json.MarshalIndent(results, "", "  ")
	if err := os.WriteFile("cache_check_results.json", report, 0o644); err != nil {
		log.Printf("Warning: failed to write report: %v", err)
	} else {
		fmt.Println("\n💾 Detailed results saved to cache_check_results.json")
	}
}

func call(client *http.Client, url, token string, auth bool) (time.Duration, int, int, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, 0, err
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, resp.StatusCode, 0, err
	}
	if resp.StatusCode >= 400 {
		return elapsed, resp.StatusCode, len(body), fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return elapsed, resp.StatusCode, len(body), nil
}

// ownerToken signs a short-lived access token in the identity service's format
func ownerToken(secret, userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "OWNER",
		"type":    "access",
		"exp":     time.Now().Add(5 * time.Minute).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
