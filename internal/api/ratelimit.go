package api

import (
	"net/http"
	"sync"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (cl *clientLimiter) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	l, ok := cl.limiters[key]
	if !ok {
		l = rate.NewLimiter(cl.rps, cl.burst)
		cl.limiters[key] = l
	}
	return l
}

// RateLimit returns a per-client-IP token-bucket middleware for the
// move-submission endpoint.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	cl := &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{constants.JSONKeyError: constants.ErrTooManyRequests})
			return
		}
		c.Next()
	}
}
