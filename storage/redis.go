package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

var redisContext = context.Background()

// Resolved calendar responses are cached briefly; the generation counter
// below, not the TTL, is what keeps them correct.
const calendarCacheTTL = 10 * time.Minute

func InitializeRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: "",
		DB:       0,
	})

	log.Println("Redis initialized with address:", redisURL)
}

// CalendarGeneration returns the property's current pricing generation.
// Every pricing write bumps it, so cache keys built from an older
// generation can never be served again: the explicit version of
// "a newer fetch supersedes the previous result set".
func CalendarGeneration(propertyID uint) int64 {
	if Redis == nil {
		return 0
	}
	gen, err := Redis.Get(redisContext, calendarGenerationKey(propertyID)).Int64()
	if err != nil {
		return 0
	}
	return gen
}

// BumpCalendarGeneration invalidates all cached calendar responses for a
// property. Called after every weekly-rate, override or rate-plan write.
func BumpCalendarGeneration(propertyID uint) {
	if Redis == nil {
		return
	}
	Redis.Incr(redisContext, calendarGenerationKey(propertyID))
}

// CalendarCacheKey builds the cache key for one resolved calendar
// response. The generation and the plan selection are part of the key.
func CalendarCacheKey(propertyID uint, generation int64, startDate, endDate string, planIDs []uint) string {
	plans := make([]string, 0, len(planIDs))
	for _, id := range planIDs {
		plans = append(plans, fmt.Sprint(id))
	}
	return fmt.Sprintf("calendar:%d:%d:%s:%s:%s", propertyID, generation, startDate, endDate, strings.Join(plans, ","))
}

// GetCachedCalendar returns the cached JSON payload for the key, if any.
func GetCachedCalendar(key string) (string, bool) {
	if Redis == nil {
		return "", false
	}
	payload, err := Redis.Get(redisContext, key).Result()
	if err != nil {
		return "", false
	}
	return payload, true
}

// SetCachedCalendar stores a resolved calendar response.
func SetCachedCalendar(key string, payload string) {
	if Redis == nil {
		return
	}
	Redis.Set(redisContext, key, payload, calendarCacheTTL)
}

func calendarGenerationKey(propertyID uint) string {
	return fmt.Sprintf("calendar:gen:%d", propertyID)
}
