package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a per-client-IP token bucket of r requests per second
// with burst b. Buckets idle for longer than idleTTL are evicted so the map
// stays bounded by the set of recently active clients.
func RateLimit(r rate.Limit, b int, idleTTL time.Duration) gin.HandlerFunc {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	buckets := &sync.Map{}

	go func() {
		ticker := time.NewTicker(idleTTL)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-idleTTL)
			buckets.Range(func(k, v interface{}) bool {
				if v.(*clientBucket).lastSeen.Before(cutoff) {
					buckets.Delete(k)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		v, _ := buckets.LoadOrStore(c.ClientIP(), &clientBucket{limiter: rate.NewLimiter(r, b)})
		bucket := v.(*clientBucket)
		bucket.lastSeen = time.Now()
		if !bucket.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
