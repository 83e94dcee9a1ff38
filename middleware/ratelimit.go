package middleware

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit guards the public availability endpoints with a per-client-IP
// token bucket. Applied at the HTTP boundary only; the availability engine
// itself never sees it. Rejections carry retryAfter seconds so well-behaved
// clients can back off.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	getLimiter := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if cl, ok := clients[ip]; ok {
			cl.lastSeen = time.Now()
			return cl.limiter
		}

		// prune idle entries so the map does not grow unbounded
		if len(clients) > 10000 {
			cutoff := time.Now().Add(-10 * time.Minute)
			for k, cl := range clients {
				if cl.lastSeen.Before(cutoff) {
					delete(clients, k)
				}
			}
		}

		cl := &client{limiter: rate.NewLimiter(rate.Limit(rps), burst), lastSeen: time.Now()}
		clients[ip] = cl
		return cl.limiter
	}

	return func(c *gin.Context) {
		lim := getLimiter(c.ClientIP())
		if !lim.Allow() {
			res := lim.Reserve()
			delay := res.Delay()
			res.Cancel()

			retryAfter := int(math.Ceil(delay.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"error":      "rate limit exceeded",
				"retryAfter": retryAfter,
			})
			return
		}
		c.Next()
	}
}
