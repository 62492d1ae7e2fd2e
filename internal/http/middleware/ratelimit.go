package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore maps a caller key (user or IP) to its token bucket. Stale
// entries are swept on access.
type limiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	staleAfter time.Duration
	lastSweep  time.Time
}

func newLimiterStore(staleAfter time.Duration) *limiterStore {
	return &limiterStore{entries: map[string]*limiterEntry{}, staleAfter: staleAfter, lastSweep: time.Now()}
}

func (s *limiterStore) get(key string, r rate.Limit, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) > s.staleAfter {
		cutoff := now.Add(-s.staleAfter)
		for k, e := range s.entries {
			if e.lastSeen.Before(cutoff) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	if e, ok := s.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	lim := rate.NewLimiter(r, burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

// RateLimit allows perMinute requests per caller with an equal burst. The
// caller is the authenticated user when known, otherwise the client IP.
// perMinute <= 0 disables the limiter.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	every := rate.Every(time.Minute / time.Duration(perMinute))
	store := newLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if uid := c.GetInt64(userIDKey); uid > 0 {
			key = "uid:" + strconv.FormatInt(uid, 10)
		}
		if !store.get(key, every, perMinute).Allow() {
			c.Header("Retry-After", strconv.Itoa(int((time.Minute / time.Duration(perMinute)).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"code":       "rate_limited",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
