package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"knowledge-api/pkg/appenv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterStore maps keys (authenticated user or client IP) to token
// buckets. A janitor goroutine drops entries not seen for staleAfter so
// the map cannot grow without bound.
type limiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	staleAfter time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(staleAfter time.Duration) *limiterStore {
	s := &limiterStore{
		entries:    make(map[string]*limiterEntry),
		staleAfter: staleAfter,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.sweep()
		}
	}()
	return s
}

func (s *limiterStore) get(key string, r rate.Limit, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.lastSeen = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(r, burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: time.Now()}
	return lim
}

func (s *limiterStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.staleAfter)
	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

func rateLimitDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED"))) {
	case "0", "false", "no":
		return true
	}
	return appenv.IsTest()
}

func envRate() (rate.Limit, int) {
	rps, burst := 5.0, 20
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			burst = n
		}
	}
	return rate.Limit(rps), burst
}

// RateLimit applies per-user (when authenticated) or per-IP token bucket
// limiting to all routes except preflight and /health. Configure with
// RATE_LIMIT_ENABLED, RATE_LIMIT_RPS and RATE_LIMIT_BURST; limiting is
// disabled automatically when APP_ENV=test.
func RateLimit() gin.HandlerFunc {
	if rateLimitDisabled() {
		return func(c *gin.Context) { c.Next() }
	}
	r, burst := envRate()
	store := newLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if uid := c.GetInt("userId"); uid != 0 {
			key = "uid:" + strconv.Itoa(uid)
		}
		if !store.get(key, r, burst).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRateLimit is a stricter, independent per-IP bucket for signup and
// login, so brute forcing credentials cannot hide inside the general
// allowance.
func AuthRateLimit() gin.HandlerFunc {
	if rateLimitDisabled() {
		return func(c *gin.Context) { c.Next() }
	}
	store := newLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !store.get("auth:"+c.ClientIP(), rate.Limit(1), 5).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
