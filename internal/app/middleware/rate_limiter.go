package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// TokenBucket refills rate tokens per second up to capacity.
type TokenBucket struct {
	rate       float64
	capacity   float64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow() bool {
	ok, _ := tb.take(time.Now())
	return ok
}

// take reports whether a token was taken and, if not, how long until one is.
func (tb *TokenBucket) take(now time.Time) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = math.Min(tb.capacity, tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.rate)
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	wait := time.Duration((1 - tb.tokens) / tb.rate * float64(time.Second))
	return false, wait
}

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(*gin.Context) string

// ByClientIP charges the caller's address.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByClientIPAndRoute charges the caller's address per route template.
func ByClientIPAndRoute(c *gin.Context) string {
	return c.ClientIP() + " " + c.FullPath()
}

// ByUser charges the signed-in user, or the address for anonymous requests.
func ByUser(c *gin.Context) string {
	if actor, ok := ActorFrom(c); ok {
		return "user:" + strconv.FormatUint(uint64(actor.UserID), 10)
	}
	return "ip:" + c.ClientIP()
}

// Limit describes one rate limit.
type Limit struct {
	Rate    float64 // tokens per second
	Burst   int
	Key     KeyFunc
	IdleTTL time.Duration // buckets unused for this long are dropped
}

// Limits applied by the router.
var (
	// APILimit covers every /api request.
	APILimit = Limit{Rate: 10, Burst: 20, Key: ByClientIP, IdleTTL: time.Hour}
	// LoginLimit slows password guessing.
	LoginLimit = Limit{Rate: 1, Burst: 5, Key: ByClientIPAndRoute, IdleTTL: time.Hour}
	// UploadLimit caps photo uploads per user; each call may carry a large base64 body.
	UploadLimit = Limit{Rate: 2, Burst: 6, Key: ByUser, IdleTTL: 30 * time.Minute}
)

type bucketEntry struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// bucketSet holds the buckets of one limiter.
type bucketSet struct {
	mu        sync.Mutex
	limit     Limit
	buckets   map[string]*bucketEntry
	lastSweep time.Time
}

func (s *bucketSet) bucket(key string, now time.Time) *TokenBucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit.IdleTTL > 0 && now.Sub(s.lastSweep) > s.limit.IdleTTL {
		for k, e := range s.buckets {
			if now.Sub(e.lastSeen) > s.limit.IdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.buckets[key]
	if !ok {
		e = &bucketEntry{bucket: NewTokenBucket(s.limit.Rate, s.limit.Burst)}
		s.buckets[key] = e
	}
	e.lastSeen = now
	return e.bucket
}

// RateLimit rejects requests over limit with 429 and a Retry-After header.
// Every call gets its own buckets.
func RateLimit(limit Limit) gin.HandlerFunc {
	if limit.Rate <= 0 || limit.Burst <= 0 {
		panic(fmt.Sprintf("rate limit needs a positive rate and burst, got %v/%d", limit.Rate, limit.Burst))
	}
	if limit.Key == nil {
		limit.Key = ByClientIP
	}
	set := &bucketSet{limit: limit, buckets: make(map[string]*bucketEntry), lastSweep: time.Now()}

	return func(c *gin.Context) {
		now := time.Now()
		ok, wait := set.bucket(limit.Key(c), now).take(now)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.AbortWithMessage(c, code.ErrTooManyRequests, code.GetMessage(code.ErrTooManyRequests))
			return
		}
		c.Next()
	}
}
